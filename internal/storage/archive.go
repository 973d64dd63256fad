package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/walkersim/internal/experiment"
	"github.com/san-kum/walkersim/internal/sim"
)

// ArchiveRecord is one line of a results archive: a single run with its
// batch position.
type ArchiveRecord struct {
	Batch   int                `json:"batch"`
	Agent   string             `json:"agent"`
	Run     int                `json:"run"`
	Walker  *sim.WalkerResult  `json:"walker,omitempty"`
	Vehicle *sim.VehicleResult `json:"vehicle,omitempty"`
}

// WriteArchive stores every run of report as zstd-compressed JSONL.
func WriteArchive(path string, report *experiment.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	w := bufio.NewWriterSize(enc, 128*1024)
	je := json.NewEncoder(w)

	for bi, b := range report.Batches {
		for ri, res := range b.Walkers {
			if err := je.Encode(ArchiveRecord{Batch: bi, Agent: b.Agent, Run: ri, Walker: res}); err != nil {
				_ = enc.Close()
				return err
			}
		}
		for ri, res := range b.Vehicles {
			if err := je.Encode(ArchiveRecord{Batch: bi, Agent: b.Agent, Run: ri, Vehicle: res}); err != nil {
				_ = enc.Close()
				return err
			}
		}
	}

	if err := w.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// ReadArchive decodes every record of an archive written by WriteArchive.
func ReadArchive(path string) ([]ArchiveRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 0, 1024*1024), 256*1024*1024)

	var records []ArchiveRecord
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec ArchiveRecord
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
