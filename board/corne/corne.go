// Package corne wires the matrix-scan and split-link core to a concrete
// two-half keyboard board. Both halves run the same firmware image; New
// reads the handedness and VBUS-sense straps at startup to pick the side
// and role.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=arm` as
// supported by the TamaGo framework for bare metal Go on ARM SoCs, see
// https://github.com/usbarmory/tamago.
package corne

import (
	"time"

	"github.com/usbarmory/splitec/analog"
	"github.com/usbarmory/splitec/debounce"
	"github.com/usbarmory/splitec/dma"
	"github.com/usbarmory/splitec/hid"
	"github.com/usbarmory/splitec/keymap"
	"github.com/usbarmory/splitec/matrix"
	"github.com/usbarmory/splitec/mux"
	"github.com/usbarmory/splitec/scanner"
	"github.com/usbarmory/splitec/soc/nxp/adc"
	"github.com/usbarmory/splitec/soc/nxp/gpio"
	"github.com/usbarmory/splitec/soc/nxp/uart"
	nxpusb "github.com/usbarmory/splitec/soc/nxp/usb"
	"github.com/usbarmory/splitec/split"
	"github.com/usbarmory/splitec/transform"
	"github.com/usbarmory/splitec/usbhid"
)

// Handedness and VBUS-sense straps, shared by both halves.
const (
	HandednessPin = 25
	VBUSPin       = 26
)

// Peripheral registers. Clock/power bring-up is an external collaborator
// (see the system overview); ModuleClock below stands in for it with the
// fixed peripheral clock rate the reference bring-up code would otherwise
// configure.
const (
	CCM_CCGR1 = 0x020c406c

	GPIO1_BASE = 0x0209c000
	CCGRx_CG13 = 26

	UART2_BASE = 0x021e8000
	CCGRx_CG14 = 28

	ADC1_BASE = 0x02198000
	CCGRx_CG15 = 30
)

// DMA region backing the UART receive ring buffer. The application must
// guarantee this range is never used by the Go runtime; it is carved out
// of RAM above the runtime heap by the linker script (not part of this
// repository's scope).
const (
	DMAStart = 0x90000000
	DMASize  = 1 << 20
)

// ModuleClock is the fixed peripheral clock rate used to derive the UART
// baud-rate divisor.
func ModuleClock() uint32 {
	return 80000000
}

// GPIO is the single GPIO controller instance both halves' pins are
// allocated from.
var GPIO = &gpio.GPIO{
	Base: GPIO1_BASE,
	CCGR: CCM_CCGR1,
	CG:   CCGRx_CG13,
}

// NbBounce is the debounce run length used by both halves.
const NbBounce = 2

// DischargeDelay is the bounded settling delay after discharging a TX
// plate, tuned to the RC of the sense network.
const DischargeDelay = 2500

// Identity is this board's fixed USB descriptor strings.
var Identity = usbhid.Identity{
	Manufacturer: "splitec",
	Product:      "corne",
	Serial:       "0",
}

// Thresholds is the per-cell pressed/not-pressed boundary, shared by both
// halves, tuned empirically for this hardware revision.
func Thresholds() [matrix.TxSize][matrix.RxSize]int32 {
	var t [matrix.TxSize][matrix.RxSize]int32

	for tx := range t {
		for rx := range t[tx] {
			t[tx][rx] = 2000
		}
	}

	return t
}

// Pin adapts a soc/nxp/gpio.Pin, whose register writes cannot fail on this
// bus, to the error-returning OutputPin/InputPin capability interfaces the
// mux, analog and split packages are coded against.
type Pin struct {
	pin *gpio.Pin
}

// NewOutput configures num as an output and returns its adapter.
func NewOutput(ctrl *gpio.GPIO, num int) (Pin, error) {
	p, err := ctrl.Init(num)
	if err != nil {
		return Pin{}, err
	}
	p.Out()
	return Pin{pin: p}, nil
}

// NewInput configures num as an input and returns its adapter.
func NewInput(ctrl *gpio.GPIO, num int) (Pin, error) {
	p, err := ctrl.Init(num)
	if err != nil {
		return Pin{}, err
	}
	p.In()
	return Pin{pin: p}, nil
}

// High drives the pin high.
func (p Pin) High() error {
	p.pin.High()
	return nil
}

// Low drives the pin low.
func (p Pin) Low() error {
	p.pin.Low()
	return nil
}

// Value returns the pin level.
func (p Pin) Value() (bool, error) {
	return p.pin.Value(), nil
}

// Delay blocks for DischargeDelay CPU cycles, approximated here with a
// fixed time budget since TamaGo's scheduler has no cycle-accurate sleep.
type Delay struct{}

// Delay implements analog.Delayer.
func (Delay) Delay() {
	time.Sleep(2 * time.Microsecond)
}

// Side bundles the pin assignment and transform for one physical half. Pin
// numbers are identical on both halves: the same firmware image runs on
// mirrored PCBs wired to the same controller pins per side.
type Side struct {
	Role        split.Role
	Transform   transform.Func
	MuxEnable   int
	MuxSelects  [3]int
	MuxChannels []uint8
	Drain       int
	RowPins     [matrix.TxSize]int
	ADCChannel  int
}

// Left is the pin assignment for the left half.
var Left = Side{
	Role:        split.Left,
	Transform:   transform.Left,
	MuxEnable:   16,
	MuxSelects:  [3]int{17, 18, 19},
	MuxChannels: []uint8{0, 1, 2, 3, 4, 5, 6},
	Drain:       20,
	RowPins:     [matrix.TxSize]int{21, 22, 23, 24},
	ADCChannel:  0,
}

// Right is the pin assignment for the right half.
var Right = Side{
	Role:        split.Right,
	Transform:   transform.Right,
	MuxEnable:   16,
	MuxSelects:  [3]int{17, 18, 19},
	MuxChannels: []uint8{0, 1, 2, 3, 4, 5, 6},
	Drain:       20,
	RowPins:     [matrix.TxSize]int{21, 22, 23, 24},
	ADCChannel:  0,
}

// Board is a fully wired half: its scanner, UART transport, keymap engine
// and (master only) USB HID writer, ready for split.Run.
type Board struct {
	Config split.Config
}

// New detects this half's side and role, constructs the GPIO, ADC and
// UART drivers, and builds the scanner and split.Config.
func New() (*Board, error) {
	handedness, err := NewInput(GPIO, HandednessPin)
	if err != nil {
		return nil, err
	}

	vbus, err := NewInput(GPIO, VBUSPin)
	if err != nil {
		return nil, err
	}

	role, err := split.DetectRole(handedness)
	if err != nil {
		return nil, err
	}

	master, err := split.IsMaster(vbus)
	if err != nil {
		return nil, err
	}

	side := Left
	if role == split.Right {
		side = Right
	}

	sc, err := newScanner(side)
	if err != nil {
		return nil, err
	}

	u := &uart.UART{
		Base:     UART2_BASE,
		CCGR:     CCM_CCGR1,
		CG:       CCGRx_CG14,
		Clock:    ModuleClock,
		Baudrate: 115200,
		Parity:   uart.ParityNone,
		DMA:      dma.Init(DMAStart, DMASize),
	}
	u.Init()

	cfg := split.Config{
		Master:  master,
		Scanner: sc,
		UART:    u,
	}

	if master {
		cfg.Engine = keymap.NewIdentity(defaultKeymap())
		cfg.USB = nil // wired by the caller once the USB device is enumerated
	}

	return &Board{Config: cfg}, nil
}

// USBDevice assembles this board's USB HID descriptor set.
func USBDevice() (*nxpusb.Device, error) {
	return usbhid.NewDevice(Identity)
}

// HIDWriter wires a concrete USB interrupt-IN endpoint writer into a
// master board's configuration. Master-only; it is a no-op on a slave.
func (b *Board) HIDWriter(w hid.Writer) {
	b.Config.USB = w
}

func newScanner(side Side) (*scanner.Scanner, error) {
	enable, err := NewOutput(GPIO, side.MuxEnable)
	if err != nil {
		return nil, err
	}

	var selects [3]mux.OutputPin
	for i, num := range side.MuxSelects {
		p, err := NewOutput(GPIO, num)
		if err != nil {
			return nil, err
		}
		selects[i] = p
	}

	m, err := mux.New(enable, selects, side.MuxChannels)
	if err != nil {
		return nil, err
	}

	drain, err := NewOutput(GPIO, side.Drain)
	if err != nil {
		return nil, err
	}

	channels := make([]analog.OutputPin, len(side.RowPins))
	for i, num := range side.RowPins {
		p, err := NewOutput(GPIO, num)
		if err != nil {
			return nil, err
		}
		channels[i] = p
	}

	charger, err := analog.NewTxCharger(drain, channels, Delay{})
	if err != nil {
		return nil, err
	}

	adcDrv := &adc.ADC{
		Base:    ADC1_BASE,
		CCGR:    CCM_CCGR1,
		CG:      CCGRx_CG15,
		Channel: side.ADCChannel,
	}

	if err := adcDrv.Init(); err != nil {
		return nil, err
	}

	sampler := analog.NewRxSampler(m, adcDrv)

	debouncer, err := debounce.New(matrix.TxSize, matrix.RxSize, NbBounce)
	if err != nil {
		return nil, err
	}

	return scanner.New(charger, sampler, side.Transform, debouncer, Thresholds(), nil), nil
}

func defaultKeymap() [5][12]uint8 {
	// HID usage IDs for the full 5×12 logical grid, which holds the 48
	// matrix keys and the 8 thumb-cluster keys of both halves; the real
	// layer/hold-tap/chord table is supplied by the external keymap
	// engine, not this repository.
	var kc [5][12]uint8

	id := uint8(0x04) // Keyboard a/A

	for row := range kc {
		for col := range kc[row] {
			kc[row][col] = id
			id++
		}
	}

	return kc
}
