package mp4io

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ugparu/isobmff/utils/bits/pio"
)

const EMSG = Tag(0x656d7367)

// EventMessage is an emsg box (ISO/IEC 23009-1). Version 0 carries a
// presentation time delta relative to the segment, version 1 an absolute
// 64 bit presentation time.
type EventMessage struct {
	Version               uint8  `json:"version"`
	Flags                 uint32 `json:"flags"`
	SchemeIDURI           string `json:"scheme_id_uri"`
	Value                 string `json:"value"`
	Timescale             uint32 `json:"timescale"`
	PresentationTimeDelta uint32 `json:"presentation_time_delta,omitempty"`
	PresentationTime      uint64 `json:"presentation_time,omitempty"`
	EventDuration         uint32 `json:"event_duration"`
	ID                    uint32 `json:"id"`
	MessageData           []byte `json:"message_data"`
}

func (EventMessage) Tag() Tag {
	return EMSG
}

func (e EventMessage) payloadLen() uint64 {
	n := uint64(FullBoxExtLen)
	n += uint64(len(e.SchemeIDURI)) + 1
	n += uint64(len(e.Value)) + 1
	if e.Version == 0 {
		n += 16
	} else {
		n += 20
	}
	n += uint64(len(e.MessageData))
	return n
}

func (e EventMessage) Len() uint64 {
	return boxLen(e.payloadLen())
}

func (e EventMessage) Marshal(w io.Writer) (uint64, error) {
	if e.Version > 1 {
		return 0, &UnsupportedVersionError{Tag: EMSG, Version: e.Version}
	}
	if strings.IndexByte(e.SchemeIDURI, 0) >= 0 || strings.IndexByte(e.Value, 0) >= 0 {
		return 0, fmt.Errorf("mp4io: %s: scheme_id_uri and value must not contain NUL", EMSG)
	}
	b := make([]byte, e.payloadLen())
	e.marshal(b)
	return writeBox(w, EMSG, b)
}

func (e EventMessage) marshal(b []byte) (n int) {
	PutFullBoxExt(b[n:], e.Version, e.Flags)
	n += FullBoxExtLen
	if e.Version == 0 {
		n += putCString(b[n:], e.SchemeIDURI)
		n += putCString(b[n:], e.Value)
		pio.PutU32BE(b[n:], e.Timescale)
		n += 4
		pio.PutU32BE(b[n:], e.PresentationTimeDelta)
		n += 4
		pio.PutU32BE(b[n:], e.EventDuration)
		n += 4
		pio.PutU32BE(b[n:], e.ID)
		n += 4
	} else {
		pio.PutU32BE(b[n:], e.Timescale)
		n += 4
		pio.PutU64BE(b[n:], e.PresentationTime)
		n += 8
		pio.PutU32BE(b[n:], e.EventDuration)
		n += 4
		pio.PutU32BE(b[n:], e.ID)
		n += 4
		n += putCString(b[n:], e.SchemeIDURI)
		n += putCString(b[n:], e.Value)
	}
	n += copy(b[n:], e.MessageData)
	return
}

func (e *EventMessage) Unmarshal(r Reader, h BoxHeader) error {
	b, err := readPayload(r, h)
	if err != nil {
		return err
	}
	return e.unmarshal(b, h.PayloadOffset())
}

func (e *EventMessage) unmarshal(b []byte, offset int64) (err error) {
	n := 0
	if e.Version, e.Flags, err = getFullBoxExt(b, offset); err != nil {
		return
	}
	n += FullBoxExtLen

	u32 := func(field string) (v uint32, err error) {
		if len(b) < n+4 {
			return 0, parseErr(field, offset+int64(n), io.ErrUnexpectedEOF)
		}
		v = pio.U32BE(b[n:])
		n += 4
		return
	}
	cstr := func(field string) (s string, err error) {
		i := bytes.IndexByte(b[n:], 0)
		if i < 0 {
			return "", parseErr(field, offset+int64(n), io.ErrUnexpectedEOF)
		}
		s = string(b[n : n+i])
		n += i + 1
		return
	}

	switch e.Version {
	case 0:
		if e.SchemeIDURI, err = cstr("SchemeIDURI"); err != nil {
			return
		}
		if e.Value, err = cstr("Value"); err != nil {
			return
		}
		if e.Timescale, err = u32("Timescale"); err != nil {
			return
		}
		if e.PresentationTimeDelta, err = u32("PresentationTimeDelta"); err != nil {
			return
		}
		if e.EventDuration, err = u32("EventDuration"); err != nil {
			return
		}
		if e.ID, err = u32("ID"); err != nil {
			return
		}
	case 1:
		if e.Timescale, err = u32("Timescale"); err != nil {
			return
		}
		if len(b) < n+8 {
			return parseErr("PresentationTime", offset+int64(n), io.ErrUnexpectedEOF)
		}
		e.PresentationTime = pio.U64BE(b[n:])
		n += 8
		if e.EventDuration, err = u32("EventDuration"); err != nil {
			return
		}
		if e.ID, err = u32("ID"); err != nil {
			return
		}
		if e.SchemeIDURI, err = cstr("SchemeIDURI"); err != nil {
			return
		}
		if e.Value, err = cstr("Value"); err != nil {
			return
		}
	default:
		return &UnsupportedVersionError{Tag: EMSG, Version: e.Version}
	}
	e.MessageData = nil
	if n < len(b) {
		e.MessageData = b[n:]
	}
	return nil
}

func (EventMessage) Children() []Box {
	return nil
}

func (e EventMessage) String() string {
	if e.Version == 0 {
		return fmt.Sprintf("scheme=%q value=%q timescale=%d presentation_time_delta=%d duration=%d id=%d data len=%d",
			e.SchemeIDURI, e.Value, e.Timescale, e.PresentationTimeDelta, e.EventDuration, e.ID, len(e.MessageData))
	}
	return fmt.Sprintf("scheme=%q value=%q timescale=%d presentation_time=%d duration=%d id=%d data len=%d",
		e.SchemeIDURI, e.Value, e.Timescale, e.PresentationTime, e.EventDuration, e.ID, len(e.MessageData))
}

func (*EventMessage) fragmentBox() {}

func putCString(b []byte, s string) int {
	n := copy(b, s)
	b[n] = 0
	return n + 1
}
