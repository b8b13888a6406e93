package hal

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/exp/io/spi"
)

const (
	gpioRoot = "/sys/class/gpio"

	resetPulse = 10 * time.Millisecond
	bootDelay  = 500 * time.Millisecond
)

// Bus drives the module over a spidev node with sysfs GPIO control
// lines. It implements Port.
type Bus struct {
	dev   *spi.Device
	ready *pin
	reset *pin
	cs    *pin
}

// Open opens the SPI device in mode 0 with 16-bit words and claims the
// control lines. The module stays deselected until the first Select.
func Open(conf Config) (*Bus, error) {
	dev, err := spi.Open(&spi.Devfs{Dev: conf.Device, Mode: spi.Mode0, MaxSpeed: conf.Speed})
	if err != nil {
		return nil, err
	}
	if err = dev.SetBitsPerWord(8 * WordSize); err != nil {
		dev.Close()
		return nil, err
	}
	b := &Bus{dev: dev}
	lines := []struct {
		p   **pin
		num int
		dir string
	}{
		{&b.ready, conf.ReadyPin, "in"},
		{&b.reset, conf.ResetPin, "out"},
		{&b.cs, conf.CSPin, "out"},
	}
	for _, l := range lines {
		if *l.p, err = openPin(l.num, l.dir); err != nil {
			b.Close()
			return nil, err
		}
	}
	if err = b.cs.write(true); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// Close releases the SPI device and the GPIO lines.
func (b *Bus) Close() error {
	var first error
	if b.dev != nil {
		first = b.dev.Close()
		b.dev = nil
	}
	for _, p := range []*pin{b.ready, b.reset, b.cs} {
		if p == nil {
			continue
		}
		if err := p.close(); err != nil && first == nil {
			first = err
		}
	}
	b.ready, b.reset, b.cs = nil, nil, nil
	return first
}

// ReadWord implements Port.
func (b *Bus) ReadWord(p []byte) error {
	if len(p) != WordSize {
		return fmt.Errorf("read %d bytes, want %d", len(p), WordSize)
	}
	return b.dev.Tx(nil, p)
}

// WriteWords implements Port.
func (b *Bus) WriteWords(p []byte) error {
	if len(p)%WordSize != 0 {
		return fmt.Errorf("write %d bytes, not word aligned", len(p))
	}
	return b.dev.Tx(p, nil)
}

// DataReady implements Port.
func (b *Bus) DataReady() (bool, error) {
	return b.ready.read()
}

// Select implements Port. The line is active low.
func (b *Bus) Select() error {
	return b.cs.write(false)
}

// Deselect implements Port.
func (b *Bus) Deselect() error {
	return b.cs.write(true)
}

// Reset implements Port: hold the reset line low, release it and wait
// for the firmware to boot.
func (b *Bus) Reset() error {
	if err := b.reset.write(false); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	if err := b.reset.write(true); err != nil {
		return err
	}
	time.Sleep(bootDelay)
	return nil
}

// pin is one exported sysfs GPIO line with its value file kept open.
type pin struct {
	num  int
	file *os.File
}

func openPin(num int, dir string) (*pin, error) {
	gpioDir := fmt.Sprintf("%s/gpio%d", gpioRoot, num)
	if _, err := os.Stat(gpioDir); os.IsNotExist(err) {
		if err = os.WriteFile(gpioRoot+"/export", []byte(strconv.Itoa(num)), 0200); err != nil {
			return nil, err
		}
		// sysfs attribute files appear asynchronously after export.
		time.Sleep(50 * time.Millisecond)
	}
	if err := os.WriteFile(gpioDir+"/direction", []byte(dir), 0644); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(gpioDir+"/value", os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &pin{num: num, file: f}, nil
}

func (p *pin) read() (bool, error) {
	var buf [1]byte
	if _, err := p.file.ReadAt(buf[:], 0); err != nil {
		return false, err
	}
	return buf[0] == '1', nil
}

func (p *pin) write(v bool) error {
	b := []byte{'0'}
	if v {
		b[0] = '1'
	}
	_, err := p.file.WriteAt(b, 0)
	return err
}

func (p *pin) close() error {
	return p.file.Close()
}
