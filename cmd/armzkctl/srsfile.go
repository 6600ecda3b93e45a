package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/kzg"
)

// writeSRS and readSRS persist an SRS as newline hex, mirroring
// KZG::SRS::saveHex/loadHex from the original reference implementation.
func writeSRS(path string, srs *kzg.SRS) error {
	var b strings.Builder
	fmt.Fprintf(&b, "n:%d\n", len(srs.G1Powers))
	fmt.Fprintf(&b, "g2_1:%s\n", hex.EncodeToString(bytesOfG2(srs.G2One)))
	fmt.Fprintf(&b, "g2_tau:%s\n", hex.EncodeToString(bytesOfG2(srs.G2Tau)))
	for i, p := range srs.G1Powers {
		fmt.Fprintf(&b, "g1_%d:%s\n", i, hex.EncodeToString(bytesOfG1(p)))
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func readSRS(path string) (*kzg.SRS, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<24)

	srs := &kzg.SRS{}
	var n int
	for sc.Scan() {
		line := sc.Text()
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		key, val := line[:idx], line[idx+1:]
		switch {
		case key == "n":
			n, err = strconv.Atoi(val)
			if err != nil {
				return nil, err
			}
			srs.G1Powers = make([]field.G1, n)
		case key == "g2_1":
			if srs.G2One, err = parseG2Hex(val); err != nil {
				return nil, err
			}
		case key == "g2_tau":
			if srs.G2Tau, err = parseG2Hex(val); err != nil {
				return nil, err
			}
		case strings.HasPrefix(key, "g1_"):
			i, err := strconv.Atoi(strings.TrimPrefix(key, "g1_"))
			if err != nil {
				return nil, err
			}
			p, err := parseG1Hex(val)
			if err != nil {
				return nil, err
			}
			if i >= len(srs.G1Powers) {
				return nil, fmt.Errorf("g1 index %d out of range for n=%d", i, n)
			}
			srs.G1Powers[i] = p
		}
	}
	return srs, sc.Err()
}

func bytesOfG1(p field.G1) []byte {
	b := p.Bytes()
	return b[:]
}

func bytesOfG2(p field.G2) []byte {
	b := p.Bytes()
	return b[:]
}

func parseG1Hex(s string) (field.G1, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return field.G1{}, err
	}
	var p field.G1
	_, err = p.SetBytes(b)
	return p, err
}

func parseG2Hex(s string) (field.G2, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return field.G2{}, err
	}
	var p field.G2
	_, err = p.SetBytes(b)
	return p, err
}
