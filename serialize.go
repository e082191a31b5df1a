package polyfit

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
)

// Observation variant tags as they appear on the wire. These intentionally
// mirror ObservationKind's iota order but are pinned to explicit values so
// the format does not shift if the Go-side enum is ever reordered.
const (
	tagDirect           uint8 = 0
	tagDerivative       uint8 = 1
	tagIntegral         uint8 = 2
	tagIntegralInterval uint8 = 3
)

// SerializeObservation writes o in a fixed little-endian layout:
//
//	byte 0:        variant tag (tagDirect..tagIntegralInterval)
//	8 bytes:       x (Direct/Derivative/Integral) or startX (IntegralInterval)
//	8 bytes:       y (Direct/Derivative/Integral) or endX (IntegralInterval, with y following)
//	8 bytes:       y (IntegralInterval only)
//	4 bytes:       order (int32, Derivative/Integral/IntegralInterval only)
//	4 bytes:       len(constants) (int32, Integral/IntegralInterval only), -1 means "absent"
//	8*len bytes:   constants, lowest-order first
//
// Each variant writes only the fields relevant to it, so the layout is not
// a fixed-size struct dump: a reader must switch on the tag exactly as
// DeserializeObservation does.
func SerializeObservation(o Observation) ([]byte, error) {
	var buf bytes.Buffer
	switch o.kind {
	case Direct:
		buf.WriteByte(tagDirect)
		writeFloat64(&buf, o.x)
		writeFloat64(&buf, o.y)
	case DerivativeKind:
		buf.WriteByte(tagDerivative)
		writeFloat64(&buf, o.x)
		writeFloat64(&buf, o.y)
		writeInt32(&buf, int32(o.order))
	case IntegralKind:
		buf.WriteByte(tagIntegral)
		writeFloat64(&buf, o.x)
		writeFloat64(&buf, o.y)
		writeInt32(&buf, int32(o.order))
		writeConstants(&buf, o)
	case IntegralIntervalKind:
		buf.WriteByte(tagIntegralInterval)
		writeFloat64(&buf, o.startX)
		writeFloat64(&buf, o.endX)
		writeFloat64(&buf, o.y)
		writeInt32(&buf, int32(o.order))
		writeConstants(&buf, o)
	default:
		return nil, newErr(InvalidConfiguration, "SerializeObservation", "unknown observation kind %d", o.kind)
	}
	return buf.Bytes(), nil
}

func writeConstants(buf *bytes.Buffer, o Observation) {
	if !o.hasConstants {
		writeInt32(buf, -1)
		return
	}
	writeInt32(buf, int32(len(o.constants)))
	for _, c := range o.constants {
		writeFloat64(buf, c)
	}
}

func writeFloat64(buf *bytes.Buffer, v float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	buf.Write(tmp[:])
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	buf.Write(tmp[:])
}

// DeserializeObservation parses the layout written by SerializeObservation.
func DeserializeObservation(data []byte) (Observation, error) {
	r := bytes.NewReader(data)
	tagByte, err := r.ReadByte()
	if err != nil {
		return Observation{}, newErr(InvalidConfiguration, "DeserializeObservation", "empty input")
	}

	switch tagByte {
	case tagDirect:
		x, y, err := readXY(r)
		if err != nil {
			return Observation{}, err
		}
		return NewDirectObservation(x, y), nil

	case tagDerivative:
		x, y, err := readXY(r)
		if err != nil {
			return Observation{}, err
		}
		order, err := readInt32(r)
		if err != nil {
			return Observation{}, err
		}
		return NewDerivativeObservation(x, y, int(order))

	case tagIntegral:
		x, y, err := readXY(r)
		if err != nil {
			return Observation{}, err
		}
		order, err := readInt32(r)
		if err != nil {
			return Observation{}, err
		}
		constants, err := readConstants(r)
		if err != nil {
			return Observation{}, err
		}
		return NewIntegralObservation(x, y, int(order), constants)

	case tagIntegralInterval:
		startX, err := readFloat64(r)
		if err != nil {
			return Observation{}, err
		}
		endX, err := readFloat64(r)
		if err != nil {
			return Observation{}, err
		}
		y, err := readFloat64(r)
		if err != nil {
			return Observation{}, err
		}
		order, err := readInt32(r)
		if err != nil {
			return Observation{}, err
		}
		constants, err := readConstants(r)
		if err != nil {
			return Observation{}, err
		}
		return NewIntegralIntervalObservation(startX, endX, y, int(order), constants)

	default:
		return Observation{}, newErr(InvalidConfiguration, "DeserializeObservation", "unknown tag byte %d", tagByte)
	}
}

func readXY(r *bytes.Reader) (x, y float64, err error) {
	x, err = readFloat64(r)
	if err != nil {
		return 0, 0, err
	}
	y, err = readFloat64(r)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func readFloat64(r *bytes.Reader) (float64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, newErr(InvalidConfiguration, "DeserializeObservation", "truncated float64: %w", err)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(tmp[:])), nil
}

func readInt32(r *bytes.Reader) (int32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, newErr(InvalidConfiguration, "DeserializeObservation", "truncated int32: %w", err)
	}
	return int32(binary.LittleEndian.Uint32(tmp[:])), nil
}

func readConstants(r *bytes.Reader) ([]float64, error) {
	n, err := readInt32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	constants := make([]float64, n)
	for i := range constants {
		v, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		constants[i] = v
	}
	return constants, nil
}

// SerializePolynomial writes p as a length-prefixed array of coefficients
// (lowest-order first): 4-byte count followed by 8 bytes per coefficient.
func SerializePolynomial(p Polynomial) []byte {
	var buf bytes.Buffer
	writeInt32(&buf, int32(len(p.Coeffs)))
	for _, c := range p.Coeffs {
		writeFloat64(&buf, c)
	}
	return buf.Bytes()
}

// DeserializePolynomial parses the layout written by SerializePolynomial.
func DeserializePolynomial(data []byte) (Polynomial, error) {
	r := bytes.NewReader(data)
	n, err := readInt32(r)
	if err != nil {
		return Polynomial{}, err
	}
	if n < 0 {
		return Polynomial{}, newErr(InvalidConfiguration, "DeserializePolynomial", "negative coefficient count %d", n)
	}
	coeffs := make([]float64, n)
	for i := range coeffs {
		v, err := readFloat64(r)
		if err != nil {
			return Polynomial{}, err
		}
		coeffs[i] = v
	}
	return Polynomial{Coeffs: coeffs}, nil
}
