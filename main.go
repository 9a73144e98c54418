// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.
//
// +build tamago,arm

// splitec firmware entry point for the corne board.
package main

import (
	"context"
	"log"

	"github.com/usbarmory/splitec/board/corne"
	"github.com/usbarmory/splitec/split"
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("splitec: ")
}

func main() {
	board, err := corne.New()
	if err != nil {
		log.Fatalf("board init failed: %v", err)
	}

	if board.Config.Master {
		dev, err := corne.USBDevice()
		if err != nil {
			log.Fatalf("usb device init failed: %v", err)
		}

		// Enumeration and endpoint transfers are driven by the USB
		// device controller, an external collaborator not part of
		// this repository; it is expected to call board.HIDWriter
		// once the HID interrupt-IN endpoint is ready to accept
		// reports, using dev's descriptor set to enumerate.
		_ = dev
	}

	if err := split.Run(context.Background(), board.Config); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
