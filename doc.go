// Package streamkit composes byte streams out of devices and filters, and
// reads and writes typed values on top of them.
//
// A device is the endpoint that owns the bytes: an in-memory buffer, a view
// over a caller's slice, or a file. A filter wraps the next component in the
// chain and transforms what passes through it. Every component declares a
// [Category], a set of capability tags such as [CatInput], [CatOutputSeekable]
// or [CatLineOriented], and a filter refuses to bind to a component that lacks
// the tags it needs.
//
// # Devices
//
// Devices live in their own packages and register themselves with the
// factory when imported:
//
//   - In-memory buffers and views (github.com/gobeaver/streamkit/device/memory)
//   - Files, directional or read-write (github.com/gobeaver/streamkit/device/file)
//
// The file package splits direction into separate types, so a file.Source
// has no Write method and a file.Sink has no Read method:
//
//	src, err := file.OpenSource("data.bin", streamkit.Binary)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer src.Close()
//
// # Pipelines
//
// [Pipe] binds filters onto a device from the inside out. The first filter
// sits next to the device and the last one faces the caller:
//
//	sum := streamkit.NewChecksum(streamkit.ChecksumSHA256)
//	p, err := streamkit.Pipe(src, streamkit.NewCompress(), sum)
//	if err != nil {
//	    // A *CapabilityError names the tags the chain is missing.
//	}
//	defer p.Close()
//
//	data, err := io.ReadAll(p)
//	digest, _ := sum.Sum(streamkit.ChecksumSHA256)
//
// Operations outside the pipeline's category fail with [ErrNotSupported].
// Closing a pipeline closes the filters outermost first and then the device.
// Wrap a device in [Borrow] to keep it open after the pipeline is closed.
//
// Available filters:
//
//   - [NewSeekOffset] shifts positions by a fixed byte count
//   - [NewCompress] compresses writes and decompresses reads (zlib, gzip, zstd, deflate)
//   - [NewLines] adds buffered line reads and line-at-a-time writes
//   - [NewChecksum] hashes everything that passes through
//   - [NewEncryption] seals the stream with AES-256-GCM
//   - [NewReadOnly] rejects writes
//   - [NewMeter] counts bytes and operations and exports them to Prometheus
//
// # Typed Access
//
// [Reader] and [Writer] put fixed-size values, strings, vectors and
// length-prefixed strings on any input or output component:
//
//	w := streamkit.NewWriter(dev, streamkit.WithByteOrder(binary.BigEndian))
//	_ = streamkit.WriteValue(w, uint32(42))
//	_ = streamkit.WritePrefixed[uint16](w, "name")
//
//	r := streamkit.NewReader(dev, streamkit.WithByteOrder(binary.BigEndian))
//	n, err := streamkit.ReadValue[uint32](r)
//	if streamkit.IsShortTransfer(err) {
//	    // Fewer bytes than the value needs.
//	}
//
// # Error Handling
//
// Sentinel errors cover the common failure classes and helpers test for them:
//
//	_, err := file.OpenSource("missing.bin", streamkit.Binary)
//	if streamkit.IsNotExist(err) {
//	    // File does not exist
//	}
//
//	var pathErr *streamkit.PathError
//	if errors.As(err, &pathErr) {
//	    fmt.Printf("Operation: %s, Path: %s\n", pathErr.Op, pathErr.Path)
//	}
//
// # Configuration
//
// [Open] builds a pipeline from a [Config]: the device, its settings and a
// comma-separated filter list. [OpenFromEnv] loads the config from
// BEAVER_STREAMKIT_* environment variables:
//
//	p, err := streamkit.Open(&streamkit.Config{
//	    Device:  "file",
//	    Filters: "compress,checksum",
//	}, "archive.z", streamkit.ModeRead)
package streamkit
