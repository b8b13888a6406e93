package ism43362

// Trim strips runs of pad from both ends of the content in buf and
// compacts what remains to the front, returning its length. The first
// zero byte marks the end of content; a buffer without one is treated
// as full. Interior occurrences of pad are preserved.
//
// Trim rewrites buf in place and terminates the compacted content with
// a zero byte when there is room, so trimming twice is a no-op.
func Trim(buf []byte, pad byte) int {
	end := len(buf)
	for i, b := range buf {
		if b == 0 {
			end = i
			break
		}
	}
	for end > 0 && buf[end-1] == pad {
		end--
		buf[end] = 0
	}
	start := 0
	for start < end && buf[start] == pad {
		start++
	}
	n := copy(buf, buf[start:end])
	if n < len(buf) {
		buf[n] = 0
	}
	return n
}
