package marker

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/albertkuo/nba-comeback/utils"

	"github.com/spf13/afero"
)

// DefaultYear is used when no marker has been written yet.
const DefaultYear = 2000

// Store persists the last fully scraped year as a single line of text.
type Store struct {
	Fs   afero.Fs
	Path string
}

func NewStore(path string) *Store {
	return &Store{
		Fs:   afero.NewOsFs(),
		Path: path,
	}
}

// Load returns the saved year. When no marker has been written yet it
// returns DefaultYear with found set to false.
func (s *Store) Load() (year int, found bool, err error) {
	f, err := s.Fs.Open(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultYear, false, nil
	} else if err != nil {
		return 0, false, utils.ErrorWithTrace(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, false, utils.ErrorWithTrace(err)
		}
		return 0, false, utils.ErrorWithTrace(fmt.Errorf("marker file %s is empty", s.Path))
	}
	year, err = strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0, false, utils.ErrorWithTrace(fmt.Errorf("parsing marker file %s: %w", s.Path, err))
	}
	return year, true, nil
}

func (s *Store) Save(year int) error {
	if err := afero.WriteFile(s.Fs, s.Path, []byte(fmt.Sprintf("%d\n", year)), 0644); err != nil {
		return utils.ErrorWithTrace(err)
	}
	return nil
}
