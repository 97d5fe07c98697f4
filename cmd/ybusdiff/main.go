// Command ybusdiff compares a reference Ybus with one or more candidate
// Ybus files and writes the entries that differ.
//
//	ybusdiff -ref feederYbus.json -out ybusError.json switch0.json switch1.json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/ioutil"
	"log"

	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

func load(path string) (ybus.Serializable, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := ybus.Serializable{}
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}
	return s, nil
}

func run(refPath, outPath string, candidatePaths []string) (int, error) {
	if len(candidatePaths) == 0 {
		return 0, errors.New("no candidate files given")
	}
	ref, err := load(refPath)
	if err != nil {
		return 0, err
	}
	candidates := make([]ybus.Serializable, 0, len(candidatePaths))
	for _, p := range candidatePaths {
		c, err := load(p)
		if err != nil {
			return 0, err
		}
		candidates = append(candidates, c)
	}

	report := ybus.Diff(ref, candidates...)
	out, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return 0, err
	}
	n := 0
	for _, row := range report {
		n += len(row)
	}
	return n, ioutil.WriteFile(outPath, out, 0644)
}

func main() {
	refPath := flag.String("ref", "feederYbus.json", "reference Ybus JSON file")
	outPath := flag.String("out", "ybusError.json", "report file")
	flag.Parse()

	n, err := run(*refPath, *outPath, flag.Args())
	if err != nil {
		log.Fatal("[YbusDiff] ", err)
	}
	log.Printf("[YbusDiff] %d differing entries written to %v", n, *outPath)
}
