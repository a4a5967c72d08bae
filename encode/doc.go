// Package encode renders an Element Tree back to ER7 wire text.
//
// # Basic usage
//
//	enc := encode.New()
//	data, err := enc.Encode(root)
//	if err != nil {
//	    log.Fatal("encode error:", err)
//	}
//
// # Streaming
//
//	w := encode.NewWriter(conn)
//	defer w.Close()
//	if err := w.Write(root); err != nil {
//	    log.Fatal(err)
//	}
//
// # Delimiter override
//
// A tree built with one delimiter set can be re-encoded under another
// without mutating the source tree:
//
//	enc := encode.New(encode.WithDelimiters(customDelims))
//	data, _ := enc.Encode(root)
package encode
