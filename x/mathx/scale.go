package mathx

// ScaleU16 maps a 16-bit reading onto [0, full] with 32-bit intermediates and
// rounding to nearest. TinyGo's machine.ADC.Get returns the full 0..0xffff span
// regardless of converter width.
func ScaleU16(raw uint16, full uint32) uint32 {
	return (uint32(raw)*full + 0x7fff) / 0xffff
}

// RoundDiv returns floor((a + b/2)/b), classic rounding for positives.
func RoundDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
