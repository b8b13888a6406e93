// Package hal defines the hardware contract between the radio module
// driver and the physical bus binding.
package hal

// WordSize is the number of bytes the bus moves per transfer unit.
const WordSize = 2

// Port is one physical binding of the module: the word-addressed data
// channel plus the data-ready, chip-select and reset lines.
type Port interface {
	// ReadWord reads one bus word into p. len(p) must be WordSize.
	ReadWord(p []byte) error
	// WriteWords writes p as len(p)/WordSize bus words. len(p) must be
	// a multiple of WordSize.
	WriteWords(p []byte) error
	// DataReady reports whether the module has data pending in the
	// currently selected direction.
	DataReady() (bool, error)
	// Select asserts the chip-select line.
	Select() error
	// Deselect releases the chip-select line.
	Deselect() error
	// Reset pulses the module reset line and waits for boot.
	Reset() error
}

// Config selects the devices backing a Port on this host.
type Config struct {
	// Device is the SPI device node, e.g. /dev/spidev0.0.
	Device string
	// Speed is the maximum clock speed in Hz.
	Speed int64
	// ReadyPin, ResetPin and CSPin are the GPIO numbers of the
	// data-ready, reset and chip-select lines. Chip select is driven
	// in software, not by the SPI controller.
	ReadyPin int
	ResetPin int
	CSPin    int
}
