// USB HID class descriptor support
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

import (
	"bytes"
	"encoding/binary"
)

// HID class descriptor sizes and types.
const (
	HID_DESCRIPTOR_LENGTH = 0x09
	HID_INTERFACE_CLASS   = 0x21
	HID_REPORT_TYPE       = 0x22

	HID_SUBCLASS_BOOT     = 0x01
	HID_PROTOCOL_KEYBOARD = 0x01
)

// HIDDescriptor implements
// p22, Section 6.2.1 HID Descriptor, Device Class Definition for HID 1.11.
type HIDDescriptor struct {
	Length                 uint8
	DescriptorType         uint8
	bcdHID                 uint16
	CountryCode            uint8
	NumDescriptors         uint8
	ReportDescriptorType   uint8
	ReportDescriptorLength uint16
}

// SetKeyboardDefaults initializes default values for a boot protocol
// keyboard HID descriptor.
func (d *HIDDescriptor) SetKeyboardDefaults() {
	d.Length = HID_DESCRIPTOR_LENGTH
	d.DescriptorType = HID_INTERFACE_CLASS
	d.bcdHID = 0x0111
	d.CountryCode = 0
	d.NumDescriptors = 1
	d.ReportDescriptorType = HID_REPORT_TYPE
	d.ReportDescriptorLength = uint16(len(BootKeyboardReportDescriptor()))
}

// Bytes converts the descriptor structure to byte array format.
func (d *HIDDescriptor) Bytes() []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, d)
	return buf.Bytes()
}

// BootKeyboardReportDescriptor returns the standard 6-key-rollover boot
// protocol keyboard report descriptor: a one byte modifier bitmap, one
// reserved byte, a one byte LED output report, and six keycode bytes.
func BootKeyboardReportDescriptor() []byte {
	return []byte{
		0x05, 0x01, 0x09, 0x06, 0xa1, 0x01, 0x05, 0x07, 0x19, 0xe0, 0x29, 0xe7,
		0x15, 0x00, 0x25, 0x01, 0x75, 0x01, 0x95, 0x08, 0x81, 0x02, 0x95, 0x01,
		0x75, 0x08, 0x81, 0x03, 0x95, 0x03, 0x75, 0x01, 0x05, 0x08, 0x19, 0x01,
		0x29, 0x03, 0x91, 0x02, 0x95, 0x01, 0x75, 0x05, 0x91, 0x03, 0x95, 0x06,
		0x75, 0x08, 0x15, 0x00, 0x26, 0xa4, 0x00, 0x05, 0x07, 0x19, 0x00, 0x29,
		0xa4, 0x81, 0x00, 0xc0,
	}
}
