// Package errors provides the voicedoc error taxonomy.
//
// Every failure a user can see is an *AppError carrying a machine code, a
// human message and the HTTP status the console answers with. Errors map
// to the RFC 7807 style body returned by ToResponse.
package errors
