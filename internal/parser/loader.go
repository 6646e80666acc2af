package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"imaginarium/internal/token"
)

// LoadDefinitions loads every .gen file in the ontology's definitions
// directory, in directory order. When collect is true, per-line errors are
// gathered and returned together instead of aborting at the first one.
func (p *Parser) LoadDefinitions(collect bool) []error {
	dir := p.ont.DefinitionsDir
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []error{fmt.Errorf("reading definitions directory: %w", err)}
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".gen") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	var errs []error
	for _, name := range names {
		errs = append(errs, p.LoadFile(filepath.Join(dir, name), collect)...)
		if len(errs) > 0 && !collect {
			return errs
		}
	}
	return errs
}

// LoadFile feeds the statements of one definition file through
// ParseAndExecute. Each failing line becomes a DefinitionLoadError; when
// collect is false loading stops at the first.
func (p *Parser) LoadFile(path string, collect bool) []error {
	if p.loadedFiles[path] {
		return nil
	}
	p.loadedFiles[path] = true

	f, err := os.Open(path)
	if err != nil {
		return []error{fmt.Errorf("opening %s: %w", path, err)}
	}
	defer f.Close()

	p.log.Info("loading %s", path)
	var errs []error
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if err := p.ParseAndExecute(line); err != nil {
			lerr := &DefinitionLoadError{
				File:  path,
				Line:  lineNo,
				Input: strings.TrimSpace(line),
				Err:   err,
			}
			p.log.Warn("load error: %v", lerr)
			errs = append(errs, lerr)
			if !collect {
				return errs
			}
		}
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("reading %s: %w", path, err))
	}
	return errs
}

// referentIntroduced is called when a referent is first materialized; it
// best-effort loads <name>.gen from the definitions directory. A missing
// file is skipped deliberately and logged at debug level, so loading stays
// deterministic without burdening authors with empty files.
func (p *Parser) referentIntroduced(name token.Tokens) {
	dir := p.ont.DefinitionsDir
	if dir == "" {
		return
	}
	path := filepath.Join(dir, name.String()+".gen")
	if p.loadedFiles[path] {
		return
	}
	if _, err := os.Stat(path); err != nil {
		p.log.Debug("no definition file for %q", name)
		return
	}
	if errs := p.LoadFile(path, true); len(errs) > 0 {
		for _, e := range errs {
			p.log.Warn("loading %q definitions: %v", name, e)
		}
	}
}

// LoadList reads <name>.txt from the definitions directory: one value per
// line, trimmed, blank lines skipped.
func (p *Parser) LoadList(name string) ([]string, error) {
	dir := p.ont.DefinitionsDir
	if dir == "" {
		return nil, fmt.Errorf("no definitions directory configured for list %q", name)
	}
	path := filepath.Join(dir, name+".txt")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening list %q: %w", name, err)
	}
	defer f.Close()

	var values []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		v := strings.TrimSpace(sc.Text())
		if v != "" {
			values = append(values, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading list %q: %w", name, err)
	}
	return values, nil
}
