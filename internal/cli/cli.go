package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Saner2oo2/tv-grab-dvb-plus/internal/dvbtext"
	"github.com/Saner2oo2/tv-grab-dvb-plus/internal/logging"
	"github.com/Saner2oo2/tv-grab-dvb-plus/internal/si"
)

const (
	exitOK    = 0
	exitError = 1
)

type Options struct {
	Hex     string
	Output  string
	LogFile string
	Verbose bool
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		return exitError
	}

	program := programName(args[0])
	opts := Options{Output: "TEXT"}
	files := make([]string, 0)

	for i := 1; i < len(args); i++ {
		original := args[i]
		normalized := normalizeArg(original)

		switch {
		case normalized == "--help" || normalized == "-h":
			Help(program, stdout)
			return exitOK
		case normalized == "--version":
			Version(stdout)
			return exitOK
		case normalized == "--verbose" || normalized == "-v":
			opts.Verbose = true
		case strings.HasPrefix(normalized, "--hex"):
			if value, ok := valueAfterEqual(original); ok {
				opts.Hex = value
			} else {
				fmt.Fprintln(stderr, "--hex requires a value, e.g. --hex=01486921")
				return exitError
			}
		case strings.HasPrefix(normalized, "--output"):
			if value, ok := valueAfterEqual(original); ok {
				opts.Output = value
			} else {
				HelpOutput(program, stdout)
				return exitError
			}
		case strings.HasPrefix(normalized, "--logfile"):
			if value, ok := valueAfterEqual(original); ok {
				opts.LogFile = value
			}
		case strings.HasPrefix(normalized, "--"):
			if normalized == "--" {
				continue
			}
			fmt.Fprintf(stderr, "unknown option: %s\n", original)
			return exitError
		default:
			files = append(files, original)
		}
	}

	if opts.Hex == "" && len(files) == 0 {
		return Usage(program, stdout)
	}

	output, err := runCore(opts, files, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitError
	}

	if output != "" {
		fmt.Fprint(stdout, output)
	}

	if opts.LogFile != "" {
		if err := os.WriteFile(opts.LogFile, []byte(output), 0644); err != nil {
			fmt.Fprintln(stderr, err.Error())
			return exitError
		}
	}

	return exitOK
}

func runCore(opts Options, files []string, stderr io.Writer) (string, error) {
	if !strings.EqualFold(opts.Output, "TEXT") && !strings.EqualFold(opts.Output, "XML") {
		return "", fmt.Errorf("output format not implemented: %s", opts.Output)
	}

	log := logging.New(stderr, opts.Verbose)
	dec := dvbtext.NewDecoder(dvbtext.WithLogger(log))
	defer dec.Close()

	if opts.Hex != "" {
		raw, err := decodeHexField(opts.Hex)
		if err != nil {
			return "", err
		}
		text, err := dec.ConvertText(raw)
		if err != nil {
			return "", err
		}
		return text + "\n", nil
	}

	results := make([]si.Result, 0, len(files))
	for _, path := range files {
		res, err := scanFile(path, dec, log)
		if err != nil {
			return "", err
		}
		results = append(results, res)
	}

	if strings.EqualFold(opts.Output, "XML") {
		return si.RenderXMLTV(results, AppName+"/"+appVersion), nil
	}
	return si.RenderText(results), nil
}

func scanFile(path string, dec *dvbtext.Decoder, log dvbtext.Logger) (si.Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return si.Result{}, err
	}
	defer file.Close()
	return si.NewScanner(dec, log).Scan(file)
}

// decodeHexField parses a raw text field given as hex digits. Spaces and
// colons are tolerated so fields can be pasted straight from packet dumps.
func decodeHexField(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '\t':
			return -1
		}
		return r
	}, s)
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return nil, fmt.Errorf("bad --hex value: %w", err)
	}
	return raw, nil
}

func programName(arg0 string) string {
	name := filepath.Base(arg0)
	if runtime.GOOS == "windows" {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func normalizeArg(arg string) string {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		eq = len(arg)
	}

	lower := strings.ToLower(arg[:eq])
	return lower + arg[eq:]
}

func valueAfterEqual(arg string) (string, bool) {
	eq := strings.IndexByte(arg, '=')
	if eq == -1 {
		return "", false
	}
	return arg[eq+1:], true
}
