package anim

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ModeKey names an animation mode.
type ModeKey string

const (
	ModeDefault ModeKey = "default"
	ModeWalk    ModeKey = "walk"
	ModePause   ModeKey = "pause"
)

// ErrUnknownMode is returned when decoding a mode key with no matching type.
var ErrUnknownMode = errors.New("anim: unknown mode")

// Mode is the active animation mode. The set of modes is closed: only the
// types in this package implement it, and each carries its own parameters.
// The controller stores the mode; consumers dispatch with a type switch.
type Mode interface {
	Key() ModeKey
	zapcore.ObjectMarshaler
	isMode()
}

// DefaultMode is the idle run cycle.
type DefaultMode struct {
	Foo int `yaml:"foo"`
}

// WalkMode slows the character to a walk.
type WalkMode struct {
	Bar string `yaml:"bar"`
}

// PauseMode holds the current frame. It has no parameters.
type PauseMode struct{}

func (DefaultMode) Key() ModeKey { return ModeDefault }
func (WalkMode) Key() ModeKey    { return ModeWalk }
func (PauseMode) Key() ModeKey   { return ModePause }

func (DefaultMode) isMode() {}
func (WalkMode) isMode()    {}
func (PauseMode) isMode()   {}

func (m DefaultMode) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("key", string(ModeDefault))
	enc.AddInt("foo", m.Foo)
	return nil
}

func (m WalkMode) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("key", string(ModeWalk))
	enc.AddString("bar", m.Bar)
	return nil
}

func (PauseMode) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("key", string(ModePause))
	return nil
}

// modeEntry is the file form of a mode: a key plus its parameters.
type modeEntry struct {
	Key    ModeKey   `yaml:"key"`
	Params yaml.Node `yaml:"params"`
}

// DecodeMode decodes {key: ..., params: {...}} into the matching Mode.
func DecodeMode(node *yaml.Node) (Mode, error) {
	var entry modeEntry
	if err := node.Decode(&entry); err != nil {
		return nil, fmt.Errorf("anim: decode mode: %w", err)
	}
	hasParams := !entry.Params.IsZero()
	switch entry.Key {
	case ModeDefault:
		var m DefaultMode
		if hasParams {
			if err := entry.Params.Decode(&m); err != nil {
				return nil, fmt.Errorf("anim: decode %s params: %w", entry.Key, err)
			}
		}
		return m, nil
	case ModeWalk:
		var m WalkMode
		if hasParams {
			if err := entry.Params.Decode(&m); err != nil {
				return nil, fmt.Errorf("anim: decode %s params: %w", entry.Key, err)
			}
		}
		return m, nil
	case ModePause:
		return PauseMode{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, entry.Key)
	}
}
