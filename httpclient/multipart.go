package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// MultipartBody is a multipart/form-data request body. Fields are written
// in key order, then files in slice order.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is a file part of a multipart body.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	Data        []byte
}

func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(f.FieldName)+`"; filename="`+quoteEscaper.Replace(f.FileName)+`"`)
		header.Set("Content-Type", ct)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")
