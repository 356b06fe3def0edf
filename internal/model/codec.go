package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DecodeFlow parses a flow JSON document. Missing organization slots are
// filled in so the loadout form always has its full shape.
func DecodeFlow(r io.Reader) (Flow, error) {
	var f Flow
	dec := json.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		return Flow{}, fmt.Errorf("failed to decode flow: %w", err)
	}
	f.Organization = normalizeOrganization(f.Organization)
	if f.Flow == nil {
		f.Flow = []Action{}
	}
	return f, nil
}

// UnmarshalFlow is DecodeFlow over a byte slice.
func UnmarshalFlow(data []byte) (Flow, error) {
	return DecodeFlow(bytes.NewReader(data))
}

// EncodeFlow writes f as indented JSON.
func EncodeFlow(w io.Writer, f Flow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode flow: %w", err)
	}
	return nil
}

// MarshalFlow is EncodeFlow into a byte slice.
func MarshalFlow(f Flow) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeFlow(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadFile loads a flow JSON file.
func ReadFile(path string) (Flow, error) {
	f, err := os.Open(path)
	if err != nil {
		return Flow{}, fmt.Errorf("failed to open flow file: %w", err)
	}
	defer f.Close()
	return DecodeFlow(f)
}

// WriteFile writes f to path, creating the parent directory.
func WriteFile(path string, f Flow) error {
	data, err := MarshalFlow(f)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write flow file: %w", err)
	}
	return nil
}

// Filename is the export file name for f: its title, or "flow".
func Filename(f Flow) string {
	name := strings.TrimSpace(f.Title)
	if name == "" {
		name = "flow"
	}
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	return name + ".json"
}

func normalizeOrganization(o Organization) Organization {
	o.Job.Abilities = padSlots(o.Job.Abilities, AbilitySlots)
	o.Member.Front = padSlots(o.Member.Front, FrontMemberSlots)
	o.Member.Back = padSlots(o.Member.Back, BackMemberSlots)
	o.Weapon.Other = padSlots(o.Weapon.Other, OtherWeaponSlots)
	o.Weapon.Additional = padSlots(o.Weapon.Additional, AdditionalWeaponSlots)
	o.Summon.Other = padSlots(o.Summon.Other, OtherSummonSlots)
	o.Summon.Sub = padSlots(o.Summon.Sub, SubSummonSlots)
	return o
}

func padSlots(s []Slot, n int) []Slot {
	for len(s) < n {
		s = append(s, Slot{})
	}
	return s
}
