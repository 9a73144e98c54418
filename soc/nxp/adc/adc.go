// NXP ADC driver
// https://github.com/usbarmory/tamago
//
// Copyright (c) WithSecure Corporation
// https://foundry.withsecure.com
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package adc implements a driver for a single-channel, single-ended,
// 14-bit successive-approximation ADC as found on NXP Cortex-M
// microcontrollers, internal reference, no hardware averaging.
//
// This package is only meant to be used with `GOOS=tamago GOARCH=arm` as
// supported by the TamaGo framework for bare metal Go on ARM SoCs, see
// https://github.com/usbarmory/tamago.
package adc

import (
	"errors"
	"time"

	"github.com/usbarmory/splitec/internal/reg"
)

// ADC registers, offsets relative to Base.
const (
	ADC_CR   = 0x00
	CR_ADEN  = 0
	CR_ADSTP = 2

	ADC_CFGR   = 0x04
	CFGR_RES   = 3
	CFGR_ALIGN = 5

	ADC_SQR1 = 0x08

	CR_ADSTART = 2

	ADC_ISR = 0x10
	ISR_EOC = 2

	ADC_DR = 0x14
)

// ADC represents an ADC peripheral instance.
type ADC struct {
	// Base register
	Base uint32
	// Clock gate register
	CCGR uint32
	// Clock gate
	CG int
	// Channel selects the input channel sampled by Read.
	Channel int

	cr   uint32
	cfgr uint32
	sqr1 uint32
	isr  uint32
	dr   uint32
}

// Init configures the ADC for single-ended, 14-bit, internal reference,
// single-channel conversion and enables it.
func (hw *ADC) Init() error {
	if hw.Base == 0 || hw.CCGR == 0 {
		return errors.New("invalid ADC controller instance")
	}

	hw.cr = hw.Base + ADC_CR
	hw.cfgr = hw.Base + ADC_CFGR
	hw.sqr1 = hw.Base + ADC_SQR1
	hw.isr = hw.Base + ADC_ISR
	hw.dr = hw.Base + ADC_DR

	reg.SetN(hw.CCGR, hw.CG, 0b11, 0b11)

	// 14-bit resolution, right aligned
	reg.SetN(hw.cfgr, CFGR_RES, 0b11, 0b01)

	reg.Write(hw.sqr1, uint32(hw.Channel)<<6)

	reg.Set(hw.cr, CR_ADEN)

	return nil
}

// Read triggers a single conversion on Channel and blocks until it
// completes, returning the 14-bit result.
func (hw *ADC) Read() (int32, error) {
	reg.Set(hw.cr, CR_ADSTART)

	if !reg.WaitFor(time.Millisecond, hw.isr, ISR_EOC, 1, 1) {
		return 0, errors.New("adc: conversion timeout")
	}

	return int32(reg.Get(hw.dr, 0, 0x3fff)), nil
}
