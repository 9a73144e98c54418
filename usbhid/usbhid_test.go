package usbhid

import (
	"testing"

	"github.com/usbarmory/splitec/soc/nxp/usb"
)

func TestNewDeviceDescriptors(t *testing.T) {
	dev, err := NewDevice(Identity{Manufacturer: "splitec", Product: "corne", Serial: "0"})
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}

	if dev.Descriptor.VendorId != VendorID || dev.Descriptor.ProductId != ProductID {
		t.Fatalf("VID/PID = %#x/%#x, want %#x/%#x",
			dev.Descriptor.VendorId, dev.Descriptor.ProductId, VendorID, ProductID)
	}

	if dev.Descriptor.NumConfigurations != 1 {
		t.Fatalf("NumConfigurations = %d, want 1", dev.Descriptor.NumConfigurations)
	}

	if len(dev.Configurations) != 1 {
		t.Fatalf("Configurations = %d, want 1", len(dev.Configurations))
	}

	conf := dev.Configurations[0]
	if len(conf.Interfaces) != 1 {
		t.Fatalf("Interfaces = %d, want 1", len(conf.Interfaces))
	}

	iface := conf.Interfaces[0]
	if iface.InterfaceClass != 0x03 {
		t.Fatalf("InterfaceClass = %#x, want 0x03 (HID)", iface.InterfaceClass)
	}

	if iface.InterfaceSubClass != usb.HID_SUBCLASS_BOOT || iface.InterfaceProtocol != usb.HID_PROTOCOL_KEYBOARD {
		t.Fatalf("SubClass/Protocol = %#x/%#x, want boot/keyboard",
			iface.InterfaceSubClass, iface.InterfaceProtocol)
	}

	if len(iface.Endpoints) != 2 {
		t.Fatalf("Endpoints = %d, want 2 (interrupt IN + unused OUT)", len(iface.Endpoints))
	}

	in, out := iface.Endpoints[0], iface.Endpoints[1]
	if in.EndpointAddress != 0x81 || in.MaxPacketSize != 8 {
		t.Fatalf("IN endpoint = %+v, want address 0x81, 8 bytes", in)
	}
	if out.EndpointAddress != 0x01 || out.MaxPacketSize != 8 {
		t.Fatalf("OUT endpoint = %+v, want address 0x01, 8 bytes", out)
	}
}

func TestNewDeviceAssignsStringDescriptors(t *testing.T) {
	dev, err := NewDevice(Identity{Manufacturer: "a", Product: "b", Serial: "c"})
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}

	if dev.Descriptor.Manufacturer == dev.Descriptor.Product {
		t.Fatal("manufacturer and product should be distinct string indices")
	}

	// index 0 is reserved for the language-code string, so the first real
	// string index is 1.
	if dev.Descriptor.Manufacturer < 1 {
		t.Fatalf("Manufacturer index = %d, want >= 1", dev.Descriptor.Manufacturer)
	}
}

func TestReportDescriptorMatchesHIDDescriptorLength(t *testing.T) {
	rd := ReportDescriptor()
	if len(rd) == 0 {
		t.Fatal("ReportDescriptor should not be empty")
	}

	hidDesc := &usb.HIDDescriptor{}
	hidDesc.SetKeyboardDefaults()

	if int(hidDesc.ReportDescriptorLength) != len(rd) {
		t.Fatalf("HIDDescriptor.ReportDescriptorLength = %d, want %d", hidDesc.ReportDescriptorLength, len(rd))
	}
}
