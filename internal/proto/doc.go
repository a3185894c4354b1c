// Package proto defines the CollectorService gRPC contract shared by the
// server and the client.
//
// Messages travel as google.protobuf.Struct values. The service
// descriptor, client stub and server registration below mirror what
// protoc-gen-go-grpc would emit; the helpers in wire.go and records.go
// hold the explicit field mapping between snake_case wire keys and the
// canonical records in internal/models.
//
// Wire conventions:
//   - text is a string value; binary is standard base64 in a string;
//   - amounts are numbers; an absent or null amount means "no value";
//   - calendar dates are "YYYY-MM-DD" strings; timestamps are RFC 3339;
//   - in a patch an absent key leaves the field untouched, a null value
//     clears it and any other value sets it.
package proto
