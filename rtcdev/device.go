/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package rtcdev talks to Linux real time clock devices such as /dev/rtc0
package rtcdev

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unsafe"

	"github.com/vtolstov/go-ioctl"
	"golang.org/x/sys/unix"

	"github.com/facebook/rtclock/calendar"
)

// DefaultPath is the first RTC of the system
const DefaultPath = "/dev/rtc0"

// Missing from sys/unix package, defined in Linux include/uapi/linux/rtc.h
const rtcMagic = 'p'

// ioctlRTCVLRead is an IOCTL to read voltage low detector
var ioctlRTCVLRead = ioctl.IOR(rtcMagic, 0x13, unsafe.Sizeof(uint32(0)))

// VoltageFlags is the RTC_VL_READ result
type VoltageFlags uint32

// Voltage low flags as defined in linux/rtc.h
const (
	VLDataInvalid  VoltageFlags = 0x1
	VLBackupLow    VoltageFlags = 0x2
	VLBackupEmpty  VoltageFlags = 0x4
	VLAccuracyLow  VoltageFlags = 0x8
	VLBackupSwitch VoltageFlags = 0x10
)

var voltageFlagNames = []struct {
	flag VoltageFlags
	name string
}{
	{VLDataInvalid, "DATA_INVALID"},
	{VLBackupLow, "BACKUP_LOW"},
	{VLBackupEmpty, "BACKUP_EMPTY"},
	{VLAccuracyLow, "ACCURACY_LOW"},
	{VLBackupSwitch, "BACKUP_SWITCH"},
}

func (v VoltageFlags) String() string {
	if v == 0 {
		return "OK"
	}
	names := []string{}
	for _, f := range voltageFlagNames {
		if v&f.flag != 0 {
			names = append(names, f.name)
		}
	}
	if rest := v &^ (VLDataInvalid | VLBackupLow | VLBackupEmpty | VLAccuracyLow | VLBackupSwitch); rest != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(names, "|")
}

// Device is a /dev/rtcN character device.
// It has one second resolution.
type Device struct {
	file *os.File
}

// FromFile returns Device backed by already opened file
func FromFile(file *os.File) *Device {
	return &Device{file: file}
}

// Open opens RTC device at path for reading and writing
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening device %q: %w", path, err)
	}
	return FromFile(f), nil
}

// File returns the device file
func (dev *Device) File() *os.File {
	return dev.file
}

// Fd returns file descriptor of the device
func (dev *Device) Fd() int {
	return int(dev.file.Fd())
}

// Close closes the device
func (dev *Device) Close() error {
	return dev.file.Close()
}

// ReadRaw returns seconds since the epoch, the hardware has no sub-second ticks
func (dev *Device) ReadRaw() (int64, uint32, error) {
	rt, err := unix.IoctlGetRTCTime(dev.Fd())
	if err != nil {
		return 0, 0, fmt.Errorf("RTC_RD_TIME on %s: %w", dev.file.Name(), err)
	}
	return FromRTCTime(rt), 0, nil
}

// WriteRaw sets the hardware, ticks are dropped
func (dev *Device) WriteRaw(secs int64, _ uint32) error {
	if err := unix.IoctlSetRTCTime(dev.Fd(), ToRTCTime(secs)); err != nil {
		return fmt.Errorf("RTC_SET_TIME on %s: %w", dev.file.Name(), err)
	}
	return nil
}

// TicksPerSecond is always 1
func (dev *Device) TicksPerSecond() uint32 {
	return 1
}

// Time returns hardware time
func (dev *Device) Time() (time.Time, error) {
	secs, _, err := dev.ReadRaw()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0).UTC(), nil
}

// Voltage reads the battery status of the device.
// Not every driver supports it.
func (dev *Device) Voltage() (VoltageFlags, error) {
	v, err := unix.IoctlGetUint32(dev.Fd(), uint(ioctlRTCVLRead))
	if err != nil {
		return 0, fmt.Errorf("RTC_VL_READ on %s: %w", dev.file.Name(), err)
	}
	return VoltageFlags(v), nil
}

// FromRTCTime converts kernel broken down UTC time into seconds since the epoch.
// The kernel counts years from 1900 and months from 0.
func FromRTCTime(rt *unix.RTCTime) int64 {
	return calendar.Date(int(rt.Year)+1900, int(rt.Mon)+1, int(rt.Mday), int(rt.Hour), int(rt.Min), int(rt.Sec))
}

// ToRTCTime converts seconds since the epoch into kernel broken down UTC time
func ToRTCTime(secs int64) *unix.RTCTime {
	f := calendar.ToFields(secs)
	jan1 := calendar.Date(f.Year(), 1, 1, 0, 0, 0)
	return &unix.RTCTime{
		Sec:  int32(f.Second),
		Min:  int32(f.Minute),
		Hour: int32(f.Hour),
		Mday: int32(f.Day),
		Mon:  int32(f.Month - 1),
		Year: int32(f.Year() - 1900),
		Wday: int32(f.Weekday - 1),
		Yday: int32((secs - jan1) / calendar.SecsPerDay),
	}
}
