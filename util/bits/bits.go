/*
 * ZOI - Word formatting and bit manipulation helpers.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package bits

import (
	"math"
	"strings"
)

var hexMap = "0123456789abcdef"

// Format a word as 0x followed by 8 hex digits.
func FormatHex(word uint32) string {
	var str strings.Builder
	str.WriteString("0x")
	shift := 28
	for i := 0; i < 8; i++ {
		str.WriteByte(hexMap[(word>>shift)&0xf])
		shift -= 4
	}
	return str.String()
}

// Format the low length bits of a word as binary digits.
func FormatBin(word uint32, length int) string {
	var str strings.Builder
	for i := length - 1; i >= 0; i-- {
		if word&(uint32(1)<<i) != 0 {
			str.WriteByte('1')
		} else {
			str.WriteByte('0')
		}
	}
	return str.String()
}

// Sign extend the low length bits of a value.
func SignExtend(value uint32, length int) int32 {
	if value&(uint32(1)<<(length-1)) != 0 {
		value |= ^uint32(0) << length
	}
	return int32(value)
}

// Reinterpret a float as its raw bit pattern.
func FloatBits(f float32) uint32 {
	return math.Float32bits(f)
}

// Reinterpret a bit pattern as a float.
func BitsFloat(word uint32) float32 {
	return math.Float32frombits(word)
}
