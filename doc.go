// Package baudscan finds the baud rate of an unknown serial device.
//
// Detection tries an ordered list of candidate rates. For each rate the
// device is opened in raw 8N1 mode, the incoming byte stream is sampled for
// a bounded window, and the sample is scored by how many printable ASCII
// bytes it contains. The first rate whose sample reaches the threshold wins.
//
// # Basic Usage
//
//	config, err := baudscan.NewConfig(
//	    baudscan.WithDevice("/dev/ttyUSB0"),
//	    baudscan.WithTimeout(2*time.Second),
//	    baudscan.WithThreshold(25),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := baudscan.Detect(ctx, config, baudscan.CommonRates(), baudscan.WriterSink(os.Stderr))
//	if err != nil {
//	    log.Fatal(err) // device unreachable, bad config or cancelled
//	}
//	if rate, ok := result.Rate(); ok {
//	    fmt.Println("detected", rate)
//	}
//
// # Candidate Rates
//
// Three built-in sets are available through RateSet: "standard" (ascending
// 300-921600), "common" (most frequently met rates first, the default) and
// "extended" (adds clock-derived rates such as 2604 or 10417, highest first).
// Explicit lists are parsed with ParseCandidates.
//
// # Scoring
//
// Bytes 0x20-0x7E are printable. Charset controls whether TAB, CR and LF
// also count, whether the sample must look like text (whitespace,
// punctuation and a vowel seen), and whether a non-printable byte resets
// the running count. The threshold is inclusive and a threshold of zero
// accepts the first candidate without reading.
//
// # Error Handling
//
// A device that cannot be opened aborts the run with an error wrapping
// ErrPortUnavailable and one of ErrDeviceNotFound, ErrPermissionDenied or
// ErrDeviceInUse. Silence or garbage at a rate only rejects that rate.
// Exhausting the list is not an error; Result.IsFound reports false.
//
//	if errors.Is(err, baudscan.ErrPortUnavailable) {
//	    // check the cable and permissions
//	}
//
// # Platform Support
//
// On Linux ports are driven through termios2, which allows arbitrary
// rates. Other systems use go.bug.st/serial.
package baudscan
