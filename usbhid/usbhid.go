// Package usbhid assembles the standard USB boot-keyboard descriptor set:
// device, configuration, interface, HID class and endpoint descriptors.
// The concrete USB device controller (enumeration state machine, endpoint
// register queues) is an external collaborator; this package only owns
// the descriptor bytes. The endpoint interface the HID tick loop writes
// reports through is hid.Writer.
package usbhid

import (
	"github.com/usbarmory/splitec/soc/nxp/usb"
)

// VendorID and ProductID identify this firmware as a generic boot
// keyboard.
const (
	VendorID  = 0x16C0
	ProductID = 0x27DB
)

// Identity carries the build-time descriptor strings.
type Identity struct {
	Manufacturer string
	Product      string
	Serial       string
}

// NewDevice assembles a usb.Device presenting one configuration with one
// boot-protocol keyboard HID interface: an interrupt-IN endpoint (8
// bytes, 1 ms poll) and an interrupt-OUT endpoint, present but unused.
func NewDevice(id Identity) (*usb.Device, error) {
	dev := &usb.Device{
		Descriptor: &usb.DeviceDescriptor{},
	}
	dev.Descriptor.SetDefaults()
	dev.Descriptor.VendorId = VendorID
	dev.Descriptor.ProductId = ProductID
	dev.Descriptor.DeviceClass = 0
	dev.Descriptor.DeviceSubClass = 0
	dev.Descriptor.DeviceProtocol = 0

	if err := dev.SetLanguageCodes([]uint16{0x0409}); err != nil {
		return nil, err
	}

	var err error

	if dev.Descriptor.Manufacturer, err = dev.AddString(id.Manufacturer); err != nil {
		return nil, err
	}

	if dev.Descriptor.Product, err = dev.AddString(id.Product); err != nil {
		return nil, err
	}

	if dev.Descriptor.SerialNumber, err = dev.AddString(id.Serial); err != nil {
		return nil, err
	}

	hidDesc := &usb.HIDDescriptor{}
	hidDesc.SetKeyboardDefaults()

	iface := &usb.InterfaceDescriptor{}
	iface.SetDefaults()
	iface.NumEndpoints = 2
	iface.InterfaceClass = 0x03
	iface.InterfaceSubClass = usb.HID_SUBCLASS_BOOT
	iface.InterfaceProtocol = usb.HID_PROTOCOL_KEYBOARD
	iface.ClassDescriptors = [][]byte{hidDesc.Bytes()}

	epIn := &usb.EndpointDescriptor{}
	epIn.SetDefaults()
	epIn.EndpointAddress = 0x81
	epIn.MaxPacketSize = 8
	epIn.Interval = 1

	epOut := &usb.EndpointDescriptor{}
	epOut.SetDefaults()
	epOut.EndpointAddress = 0x01
	epOut.MaxPacketSize = 8
	epOut.Interval = 1

	iface.Endpoints = []*usb.EndpointDescriptor{epIn, epOut}

	conf := &usb.ConfigurationDescriptor{}
	conf.SetDefaults()
	conf.AddInterface(iface)

	if err := dev.AddConfiguration(conf); err != nil {
		return nil, err
	}

	return dev, nil
}

// ReportDescriptor returns the boot-keyboard HID report descriptor bytes.
func ReportDescriptor() []byte {
	return usb.BootKeyboardReportDescriptor()
}
