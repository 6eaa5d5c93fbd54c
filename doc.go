// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package icm20948 controls an InvenSense ICM-20948 accelerometer and
// gyroscope over SPI.
//
// The device exposes its registers through four switchable banks; the
// driver tracks the active bank and only issues a bank-select
// transaction when a different bank is required. The chip select line
// is driven by the driver itself so that several devices can share one
// SPI bus on distinct select pins.
//
// The magnetometer sits behind the chip's auxiliary I²C master and is
// not supported; the auxiliary interface is disabled at init.
//
// # Datasheet
//
// https://invensense.tdk.com/wp-content/uploads/2016/06/DS-000189-ICM-20948-v1.3.pdf
package icm20948
