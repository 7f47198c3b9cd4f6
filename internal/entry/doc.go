// Package entry encodes and decodes journal records.
//
// A record carries three logical fields: a timestamp, an action and a line
// (1-based index plus content). Two wire formats exist:
//
//   - legacy: "<timestamp>, <action>, l<N>: <content>", the historical
//     comma-delimited text form. It round-trips only while content stays on
//     one line; it is still written when configured and always readable.
//   - v2: one JSON object per line, {"v":2,"ts":...,"op":...,"line":N,"content":...}.
//     Content is JSON-escaped, so delimiters and newlines in content are safe.
//
// Decode accepts both formats and picks one from the first byte of the
// record, so a journal may mix them.
package entry
