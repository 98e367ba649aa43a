package storage

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/san-kum/buddhabrot/internal/buddha"
	"github.com/san-kum/buddhabrot/internal/plane"
)

const metadataFile = "metadata.json"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the store directory.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return buddha.NewResourceError("output directory", err)
	}
	return nil
}

func (s *Store) Dir() string { return s.baseDir }

// RunMetadata describes one saved render. The histogram itself is never
// stored, only the image derived from it.
type RunMetadata struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Timestamp     time.Time          `json:"timestamp"`
	Image         string             `json:"image"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	SampleCount   int                `json:"sample_count"`
	Passes        int                `json:"passes"`
	MaxIterations uint32             `json:"max_iterations"`
	EscapeRadius  float64            `json:"escape_radius"`
	Policy        string             `json:"orbit_policy"`
	SeedMode      string             `json:"seed_mode"`
	Strategy      string             `json:"sample_strategy"`
	Accumulation  string             `json:"accumulation"`
	Region        plane.Region       `json:"plane_region"`
	ConstantRe    float64            `json:"constant_re"`
	ConstantIm    float64            `json:"constant_im"`
	Seed          uint64             `json:"seed"`
	Backend       string             `json:"backend"`
	Elapsed       time.Duration      `json:"elapsed_ns"`
	Stats         map[string]float64 `json:"stats,omitempty"`
}

// Save writes img in format plus metadata.json into a new run directory and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, img image.Image, format string) (string, error) {
	if meta.Name == "" {
		meta.Name = "render"
	}
	meta.Timestamp = time.Now()

	runID, runDir, err := s.newRunDir(meta.Name, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID
	meta.Image = "image." + strings.ToLower(format)

	imgFile, err := os.Create(filepath.Join(runDir, meta.Image))
	if err != nil {
		return "", err
	}
	defer imgFile.Close()
	if err := Encode(imgFile, img, format); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	if err := WriteJSON(metaFile, meta); err != nil {
		return "", err
	}

	buddha.Logger().Info("render saved", "id", runID, "dir", runDir)
	return runID, nil
}

func (s *Store) newRunDir(name string, ts time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%s", name, ts.Format("20060102-150405"))
	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if os.IsNotExist(err) {
			if err := s.Init(); err != nil {
				return "", "", err
			}
			continue
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadImage decodes the image of a saved run.
func (s *Store) LoadImage(runID string) (image.Image, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.baseDir, runID, meta.Image))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// Encode writes img to w as png, tiff or bmp.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png", "":
		return png.Encode(w, img)
	case "tiff", "tif":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case "bmp":
		return bmp.Encode(w, img)
	}
	return buddha.NewConfigError("output.format", format, "must be png, tiff or bmp")
}

// FormatFromPath infers the encoding from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return "tiff"
	case ".bmp":
		return "bmp"
	}
	return "png"
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
