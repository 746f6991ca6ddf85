package assembler

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"pPIMulator/src/isa"
	"pPIMulator/src/misc"
)

// File names written by WriteListing.
const (
	BinaryFilename   = "program.bin"
	ManifestFilename = "program.json"
)

// Entry describes one encoded instruction of a listing.
type Entry struct {
	Index int      `json:"index"`
	Word  string   `json:"word"`
	Text  string   `json:"text"`
	Lut   []string `json:"lut,omitempty"`
}

// Listing is the binary form of a program.
type Listing struct {
	Words   []uint32
	Entries []Entry
}

type Assembler struct {
	logger      *slog.Logger
	bin_dirpath string
}

func (this *Assembler) Init(config *misc.Config, logger *slog.Logger) {
	if logger == nil {
		logger = misc.DiscardLogger()
	}
	this.logger = logger.With("component", "assembler")
	if config != nil {
		this.bin_dirpath = config.BinDirpath
	}
}

// Assemble encodes every instruction of program. The program must be
// structurally valid and every pointer and row must fit its bit field.
func (this *Assembler) Assemble(program *isa.Program) (*Listing, error) {
	if program == nil {
		return nil, errors.New("assemble: nil program")
	}
	if err := isa.Validate(program); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	listing := &Listing{
		Words:   make([]uint32, 0, len(program.Instructions)),
		Entries: make([]Entry, 0, len(program.Instructions)),
	}
	for i, inst := range program.Instructions {
		word, err := isa.Encode(inst)
		if err != nil {
			return nil, fmt.Errorf("assemble instruction %d (%s): %w", i, inst, err)
		}

		entry := Entry{
			Index: i,
			Word:  fmt.Sprintf("0x%05x", word),
			Text:  inst.String(),
		}
		if inst.Kind == isa.KindProgramCore {
			entry.Lut = lo.Map(inst.Lut[:], func(value byte, _ int) string {
				return fmt.Sprintf("0x%02x", value)
			})
		}

		listing.Words = append(listing.Words, word)
		listing.Entries = append(listing.Entries, entry)
	}

	this.logger.Debug("assembled program", "words", len(listing.Words))
	return listing, nil
}

// WriteListing writes program.bin and program.json into dir. An empty dir
// selects the configured bin directory.
func (this *Assembler) WriteListing(listing *Listing, dir string) error {
	if listing == nil {
		return errors.New("write listing: nil listing")
	}
	if dir == "" {
		dir = this.bin_dirpath
	}
	if dir == "" {
		return errors.New("write listing: no output directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	data := make([]byte, 0, 4*len(listing.Words))
	for _, word := range listing.Words {
		data = binary.LittleEndian.AppendUint32(data, word)
	}
	binaryPath := filepath.Join(dir, BinaryFilename)
	if err := os.WriteFile(binaryPath, data, 0o644); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	manifest, err := json.MarshalIndent(map[string]interface{}{
		"num_words":    len(listing.Words),
		"instructions": listing.Entries,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("write listing: %w", err)
	}
	manifestPath := filepath.Join(dir, ManifestFilename)
	if err := os.WriteFile(manifestPath, manifest, 0o644); err != nil {
		return fmt.Errorf("write listing: %w", err)
	}

	this.logger.Info("wrote listing", "binary", binaryPath, "manifest", manifestPath, "words", len(listing.Words))
	return nil
}

// ReadWords loads the words of a program.bin file.
func ReadWords(path string) ([]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("read words %s: size %d is not a multiple of 4", path, len(data))
	}

	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[4*i:])
	}
	return words, nil
}
