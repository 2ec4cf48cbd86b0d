// Package eeprom implements flashsave.Flash over an I2C-attached AT24Cxx
// style serial EEPROM: a 2-byte big-endian memory address followed by data,
// page-bounded writes, and ACK-polling for write-cycle completion.
package eeprom

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

// Config describes an EEPROM's addressing geometry.
type Config struct {
	Addr     uint16 // 7-bit I2C address
	Size     int    // total byte capacity
	PageSize int    // write page size; a single write never crosses a page boundary
}

// Device implements flashsave.Flash over an I2C bus connection.
type Device struct {
	conn i2c.Dev
	cfg  Config
}

// New validates cfg and returns a Device ready to use as a flashsave.Flash.
func New(bus i2c.Bus, cfg Config) (*Device, error) {
	if cfg.PageSize <= 0 || cfg.PageSize&(cfg.PageSize-1) != 0 {
		return nil, fmt.Errorf("eeprom: page size %d must be a power of two", cfg.PageSize)
	}
	if cfg.Size <= 0 {
		return nil, errors.New("eeprom: size must be positive")
	}
	return &Device{
		conn: i2c.Dev{Bus: bus, Addr: cfg.Addr},
		cfg:  cfg,
	}, nil
}

func memAddrBytes(addr uint32) []byte {
	return []byte{byte(addr >> 8), byte(addr)}
}

// Read performs a random read: write the 2-byte memory address,
// then read len(buf) bytes starting there.
func (d *Device) Read(addr uint32, buf []byte) error {
	if err := d.conn.Tx(memAddrBytes(addr), buf); err != nil {
		return fmt.Errorf("eeprom: read at %#x: %w", addr, err)
	}
	return nil
}

// Write splits data at page boundaries, since the EEPROM's internal write
// pointer wraps to the start of the current page rather than advancing into
// the next one, and polls for write-cycle completion after every page.
func (d *Device) Write(addr uint32, data []byte) error {
	for len(data) > 0 {
		offsetInPage := int(addr) % d.cfg.PageSize
		n := d.cfg.PageSize - offsetInPage
		if n > len(data) {
			n = len(data)
		}

		buf := append(memAddrBytes(addr), data[:n]...)
		if err := d.conn.Tx(buf, nil); err != nil {
			return fmt.Errorf("eeprom: write at %#x: %w", addr, err)
		}
		if err := d.waitWriteCycle(); err != nil {
			return err
		}

		addr += uint32(n)
		data = data[n:]
	}
	return nil
}

// waitWriteCycle polls the device with a zero-length write, the standard
// EEPROM ACK-polling idiom: the device does not ACK its own address while a
// write cycle is still in progress internally.
func (d *Device) waitWriteCycle() error {
	deadline := time.Now().Add(10 * time.Millisecond)
	for {
		if err := d.conn.Tx(nil, nil); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return errors.New("eeprom: write cycle did not complete in time")
		}
		time.Sleep(200 * time.Microsecond)
	}
}

// Erase writes a single 0xFF byte at addr. EEPROM has no block-erase
// instruction, and the store only ever inspects a slot's first byte to
// decide whether it holds a committed header, so clearing that one byte is
// sufficient to make the slot read back as erased.
func (d *Device) Erase(addr uint32) error {
	return d.Write(addr, []byte{0xFF})
}
