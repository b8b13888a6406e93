// Package ism43362 drives the Inventek es-WiFi radio module over its
// 16-bit-word SPI link.
package ism43362

// The module speaks a line-oriented AT command protocol. Software
// buffers are byte addressed while the bus moves fixed two-byte words,
// so odd-length command lines gain one padding byte before transmit
// and the module pads its own responses for alignment. Padding is
// inserted and stripped at the transfer boundary only.
//
// A transaction is one framed transmit followed by one framed receive,
// each gated by the module's data-ready line and bracketed by chip
// select. The handle performs no locking: callers sharing a Device
// across goroutines must serialize transactions themselves.
//
// The padding bytes are reserved by the module's protocol and must not
// occur inside legitimate payload content. This layer cannot detect a
// collision; there is no escaping on the wire.
