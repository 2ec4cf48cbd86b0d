// Package norflash implements flashsave.Flash over a SPI-attached W25Qxx
// style NOR flash chip: JEDEC page-program/sector-erase commands with
// status-register busy-wait polling.
package norflash

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"
)

// JEDEC commands; see [W25Q128 8.1.2 Instruction Set Table 1].
const (
	cmdReadStatusRegister = 0x05
	cmdWriteEnable        = 0x06
	cmdPageProgram        = 0x02
	cmdRead               = 0x03
	cmdSectorErase        = 0x20 // 4KB
	cmdChipErase          = 0xC7

	pageSize   = 256
	sectorSize = 4096
)

// Device implements flashsave.Flash over a SPI NOR chip. It also implements
// flashsave.BulkEraser via the chip's bulk-erase instruction.
type Device struct {
	conn spi.Conn
	cs   gpio.PinIO
}

// New wraps an already-configured SPI connection and its chip-select pin.
func New(conn spi.Conn, cs gpio.PinIO) *Device {
	return &Device{conn: conn, cs: cs}
}

// tx wraps a SPI transaction with CS assertion, mirroring the chip's
// requirement that CS stay low for the whole command.
func (d *Device) tx(buf []byte) (err error) {
	if err = d.cs.Out(gpio.Low); err != nil {
		return err
	}
	defer func() {
		if csErr := d.cs.Out(gpio.High); csErr != nil && err == nil {
			err = csErr
		}
	}()
	return d.conn.Tx(buf, buf)
}

func addr24(addr uint32) [3]byte {
	return [3]byte{byte(addr >> 16), byte(addr >> 8), byte(addr)}
}

// Read reads len(buf) bytes starting at addr.
func (d *Device) Read(addr uint32, buf []byte) error {
	a := addr24(addr)
	cmd := make([]byte, 4+len(buf))
	cmd[0] = cmdRead
	cmd[1], cmd[2], cmd[3] = a[0], a[1], a[2]

	if err := d.tx(cmd); err != nil {
		return fmt.Errorf("norflash: read at %#x: %w", addr, err)
	}
	copy(buf, cmd[4:])
	return nil
}

func (d *Device) writeEnable() error {
	return d.tx([]byte{cmdWriteEnable})
}

func (d *Device) pageProgram(addr uint32, data []byte) error {
	if len(data) > pageSize {
		return fmt.Errorf("norflash: page program of %d bytes exceeds page size %d", len(data), pageSize)
	}
	if err := d.writeEnable(); err != nil {
		return err
	}

	a := addr24(addr)
	buf := make([]byte, 4+len(data))
	buf[0] = cmdPageProgram
	buf[1], buf[2], buf[3] = a[0], a[1], a[2]
	copy(buf[4:], data)

	if err := d.tx(buf); err != nil {
		return fmt.Errorf("norflash: page program at %#x: %w", addr, err)
	}
	return d.busyWait(100*time.Microsecond, 5*time.Millisecond)
}

// Write splits data across page-program boundaries. The caller (the store)
// always erases a slot before writing into it, so every byte here is
// guaranteed to be programming from the erased state rather than needing to
// clear previously-set bits.
func (d *Device) Write(addr uint32, data []byte) error {
	for len(data) > 0 {
		offsetInPage := int(addr) % pageSize
		n := pageSize - offsetInPage
		if n > len(data) {
			n = len(data)
		}
		if err := d.pageProgram(addr, data[:n]); err != nil {
			return err
		}
		addr += uint32(n)
		data = data[n:]
	}
	return nil
}

// Erase erases the 4KB sector containing addr.
func (d *Device) Erase(addr uint32) error {
	if err := d.writeEnable(); err != nil {
		return err
	}

	sectorBase := addr - addr%sectorSize
	a := addr24(sectorBase)
	buf := []byte{cmdSectorErase, a[0], a[1], a[2]}

	if err := d.tx(buf); err != nil {
		return fmt.Errorf("norflash: sector erase at %#x: %w", addr, err)
	}
	return d.busyWait(50*time.Millisecond, time.Second)
}

// EraseAll issues a chip-erase instruction, clearing the entire device
// regardless of count: this driver does not track a smaller bulk-erase
// granularity than the whole chip.
func (d *Device) EraseAll(count int) error {
	if err := d.writeEnable(); err != nil {
		return err
	}
	if err := d.tx([]byte{cmdChipErase}); err != nil {
		return fmt.Errorf("norflash: chip erase: %w", err)
	}
	return d.busyWait(time.Second, 30*time.Second)
}

func (d *Device) readStatus() (byte, error) {
	buf := []byte{cmdReadStatusRegister, 0}
	if err := d.tx(buf); err != nil {
		return 0, err
	}
	return buf[1], nil
}

// busyWait polls the status register's BUSY bit (bit 0) until it clears or
// timeout elapses.
func (d *Device) busyWait(interval, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		sr, err := d.readStatus()
		if err != nil {
			return err
		}
		if sr&0x01 == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("norflash: timed out waiting for device to become ready")
		}
		time.Sleep(interval)
	}
}
