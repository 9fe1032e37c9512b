// Package board describes the target hardware the firmware runs on.
package board

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Profile lists what a board can physically do. It is read-only once built;
// every accessor hands out copies.
type Profile struct {
	name      string
	labels    map[string]int // silkscreen label -> GPIO
	usable    []int
	uart      []int
	baudRates []int
}

// NewProfile builds a board profile. uart lists the GPIOs the serial console
// occupies while it is enabled.
func NewProfile(name string, labels map[string]int, usable, uart, baudRates []int) Profile {
	upper := make(map[string]int, len(labels))
	for label, gpio := range labels {
		upper[strings.ToUpper(label)] = gpio
	}
	rates := slices.Clone(baudRates)
	slices.Sort(rates)
	return Profile{
		name:      name,
		labels:    upper,
		usable:    slices.Clone(usable),
		uart:      slices.Clone(uart),
		baudRates: rates,
	}
}

// ESP8266 is the NodeMCU v2/v3 board used with the L293D motor shield.
// GPIO 6-11 are wired to the SPI flash and can't be driven. GPIO1/3 are the
// UART0 TX/RX lines.
var ESP8266 = NewProfile("esp8266",
	map[string]int{
		"D0": 16,
		"D1": 5,
		"D2": 4,
		"D3": 0,
		"D4": 2,
		"D5": 14,
		"D6": 12,
		"D7": 13,
		"D8": 15,
		"TX": 1,
		"RX": 3,
	},
	[]int{0, 1, 2, 3, 4, 5, 12, 13, 14, 15, 16},
	[]int{1, 3},
	[]int{300, 1200, 2400, 4800, 9600, 19200, 38400, 57600, 74880, 115200, 230400, 460800, 921600},
)

func (p Profile) Name() string { return p.name }

// Labels returns a copy of the label table.
func (p Profile) Labels() map[string]int {
	return maps.Clone(p.labels)
}

// ValidPin reports whether gpio can be used as a digital output.
func (p Profile) ValidPin(gpio int) bool {
	return slices.Contains(p.usable, gpio)
}

// SerialPin reports whether gpio carries the serial console.
func (p Profile) SerialPin(gpio int) bool {
	return slices.Contains(p.uart, gpio)
}

// SupportsBaud reports whether the UART can run at rate.
func (p Profile) SupportsBaud(rate int) bool {
	return slices.Contains(p.baudRates, rate)
}

// BaudRates returns the supported rates in ascending order.
func (p Profile) BaudRates() []int {
	return slices.Clone(p.baudRates)
}

// Pin resolves a label like "D1" (case-insensitive) to its GPIO number.
func (p Profile) Pin(label string) (int, error) {
	gpio, ok := p.labels[strings.ToUpper(strings.TrimSpace(label))]
	if !ok {
		return 0, fmt.Errorf("board %s has no pin labelled %q", p.name, label)
	}
	return gpio, nil
}

// Label returns the silkscreen label for gpio, or "GPIOn" if it has none.
func (p Profile) Label(gpio int) string {
	labels := make([]string, 0, len(p.labels))
	for label := range p.labels {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	for _, label := range labels {
		if p.labels[label] == gpio {
			return label
		}
	}
	return fmt.Sprintf("GPIO%d", gpio)
}
