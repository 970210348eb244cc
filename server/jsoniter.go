// SPDX-FileCopyrightText: 2026 Aetharia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"errors"
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.Config{
	IndentionStep:                 0,
	MarshalFloatWith6Digits:       true,
	EscapeHTML:                    false,
	SortMapKeys:                   true,
	UseNumber:                     false,
	DisallowUnknownFields:         false,
	TagKey:                        "json",
	OnlyTaggedField:               false,
	ValidateJsonRawMessage:        false,
	ObjectFieldMustBeSimpleString: true,
	CaseSensitive:                 true,
}.Froze()

var errInvalidFrame = errors.New("invalid frame")

// marshalFrame serializes an outbound message as a flat object with a
// leading "type" discriminator spliced into the encoded struct body.
// The resulting frame is shared by every socket a broadcast reaches.
func marshalFrame(out outbound) frame {
	typ := reflect.TypeOf(out)
	mType, ok := outboundMessageTypes[typ]
	if !ok {
		panic(fmt.Sprintf("unregistered outbound message type %v", typ))
	}

	body, err := json.Marshal(out)
	if err != nil {
		panic(fmt.Sprintf("marshal %s: %v", mType, err))
	}

	buf := make(frame, 0, len(body)+len(mType)+10)
	buf = append(buf, `{"type":"`...)
	buf = append(buf, mType...)
	buf = append(buf, '"')
	if len(body) > 2 {
		buf = append(buf, ',')
		buf = append(buf, body[1:]...)
	} else {
		buf = append(buf, '}')
	}
	return buf
}

// unmarshalFrame decodes a client frame. A syntactically broken frame,
// or one without a string "type", fails with errInvalidFrame; the
// caller logs and drops it. An unknown type or a known type with a
// malformed body decodes to a sentinel inbound so the router can
// answer with an error frame instead of killing the connection.
func unmarshalFrame(data []byte) (inbound, error) {
	probe := json.Get(data, "type")
	if probe.ValueType() != jsoniter.StringValue {
		return nil, errInvalidFrame
	}
	mType := messageType(probe.ToString())

	rt, ok := inboundMessageTypes[mType]
	if !ok {
		return InvalidInbound{messageType: mType}, nil
	}

	ptr := reflect.New(rt)
	if err := json.Unmarshal(data, ptr.Interface()); err != nil {
		return MalformedInbound{messageType: mType}, nil
	}
	return ptr.Elem().Interface().(inbound), nil
}
