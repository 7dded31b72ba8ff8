package server

import (
	"sort"
	"strings"

	"github.com/kbukum/voicedoc/logger"
)

// Route is a registered console route.
type Route struct {
	Method  string
	Path    string
	Handler string
}

var systemPaths = map[string]bool{
	"/health":  true,
	"/version": true,
}

// Routes returns all registered routes: API routes first by path, then
// system routes.
func (s *Server) Routes() []Route {
	ginRoutes := s.engine.Routes()
	sort.Slice(ginRoutes, func(i, j int) bool {
		iSys := systemPaths[ginRoutes[i].Path]
		jSys := systemPaths[ginRoutes[j].Path]
		if iSys != jSys {
			return !iSys
		}
		if ginRoutes[i].Path != ginRoutes[j].Path {
			return ginRoutes[i].Path < ginRoutes[j].Path
		}
		return methodOrder(ginRoutes[i].Method) < methodOrder(ginRoutes[j].Method)
	})

	routes := make([]Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, Route{Method: r.Method, Path: r.Path, Handler: formatHandlerName(r.Handler)})
	}
	return routes
}

// LogRoutes writes every route at debug level.
func (s *Server) LogRoutes() {
	for _, r := range s.Routes() {
		s.log.Debug("route", logger.Fields("method", r.Method, "path", r.Path, "handler", r.Handler))
	}
}

// formatHandlerName reduces Gin's handler path to "Type.Method":
//
//	"github.com/kbukum/voicedoc/console.(*Handler).StartRecording-fm" -> "Handler.StartRecording"
func formatHandlerName(fullPath string) string {
	name := strings.TrimSuffix(fullPath, "-fm")
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	name = strings.ReplaceAll(name, "(*", "")
	name = strings.ReplaceAll(name, ")", "")

	// Closures: "endpoint.Health.func1" -> "health"
	if strings.Contains(name, ".func") {
		parts := strings.Split(name, ".")
		for i := len(parts) - 1; i >= 0; i-- {
			if !strings.HasPrefix(parts[i], "func") {
				name = strings.ToLower(parts[i])
				break
			}
		}
	}

	// Drop a lowercase package prefix.
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 && parts[0] == strings.ToLower(parts[0]) && parts[1] != "" {
		name = parts[1]
	}
	return name
}

func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
