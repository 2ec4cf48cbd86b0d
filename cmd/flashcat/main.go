// flashcat opens a real EEPROM or NOR flash device over I2C/SPI and prints the
// freshest committed record or, with -append, appends stdin as a new one
// instead.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/brinestack/flashsave"
	"github.com/brinestack/flashsave/eeprom"
	"github.com/brinestack/flashsave/norflash"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  flashcat -backend eeprom|norflash -slot-size N -slot-count N [-append]\n")
	os.Exit(1)
}

func main() {
	var (
		backend   = flag.String("backend", "eeprom", "eeprom or norflash")
		slotSize  = flag.Int("slot-size", 64, "bytes per slot")
		slotCount = flag.Int("slot-count", 16, "number of slots")
		i2cAddr   = flag.String("i2c-bus", "", "I2C bus name, e.g. /dev/i2c-1")
		spiPort   = flag.String("spi-port", "", "SPI port name, e.g. /dev/spidev0.0")
		csPin     = flag.String("cs-pin", "", "GPIO pin name for SPI chip select")
		doAppend  = flag.Bool("append", false, "append stdin as a new record instead of printing the current one")
	)
	flag.Parse()

	if _, err := host.Init(); err != nil {
		log.Fatalf("host.Init: %v", err)
	}

	var flash flashsave.Flash
	switch *backend {
	case "eeprom":
		bus, err := i2creg.Open(*i2cAddr)
		if err != nil {
			log.Fatalf("open i2c bus: %v", err)
		}
		defer bus.Close()

		dev, err := eeprom.New(bus, eeprom.Config{
			Addr:     0x50,
			Size:     *slotSize * *slotCount,
			PageSize: 32,
		})
		if err != nil {
			log.Fatalf("eeprom.New: %v", err)
		}
		flash = dev
	case "norflash":
		port, err := spireg.Open(*spiPort)
		if err != nil {
			log.Fatalf("open spi port: %v", err)
		}
		defer port.Close()

		conn, err := port.Connect(20000000, 0, 8)
		if err != nil {
			log.Fatalf("spi connect: %v", err)
		}
		cs := gpioreg.ByName(*csPin)
		if cs == nil {
			log.Fatalf("unknown gpio pin %q", *csPin)
		}
		flash = norflash.New(conn, cs)
	default:
		usage()
	}

	store, err := flashsave.NewStore(flash, *slotSize, *slotCount)
	if err != nil {
		log.Fatalf("NewStore: %v", err)
	}

	hdr, err := store.Scan()
	if err != nil {
		log.Fatalf("Scan: %v", err)
	}

	if *doAppend {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		if err := store.Append(data); err != nil {
			log.Fatalf("Append: %v", err)
		}
		return
	}

	if hdr == nil {
		fmt.Fprintln(os.Stderr, "no committed record found")
		os.Exit(1)
	}

	buf := make([]byte, hdr.Length)
	n, err := store.ReadVerified(hdr.Idx, buf)
	if err != nil {
		log.Fatalf("ReadVerified: %v", err)
	}
	os.Stdout.Write(buf[:n])
}
