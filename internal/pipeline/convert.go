package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"modlauncher/internal/fileutil"
	"modlauncher/internal/process"
)

// PipedFlag switches export2bin into stdin/stdout mode.
const PipedFlag = "/piped"

var convertExtensions = map[string]string{
	".XANIM_EXPORT":  ".XANIM_BIN",
	".XMODEL_EXPORT": ".XMODEL_BIN",
}

// ConvertRequest describes a conversion run.
type ConvertRequest struct {
	Files        []string
	OutputDir    string
	IgnoreErrors bool
	Overwrite    bool
	// Program is the converter executable.
	Program string
	// Args defaults to PipedFlag.
	Args []string
}

func (r ConvertRequest) clone() ConvertRequest {
	r.Files = append([]string(nil), r.Files...)
	r.Args = append([]string(nil), r.Args...)
	return r
}

// DestinationExtension maps a source file to its converted extension. The
// comparison ignores case.
func DestinationExtension(path string) (string, bool) {
	ext := cases.Upper(language.Und).String(filepath.Ext(path))
	mapped, ok := convertExtensions[ext]
	return mapped, ok
}

// DestinationPath computes where the converted form of path is written.
func DestinationPath(outputDir, path string) (string, bool) {
	ext, ok := DestinationExtension(path)
	if !ok {
		return "", false
	}
	return filepath.Clean(outputDir) + string(filepath.Separator) + baseName(path) + ext, true
}

// baseName is the file name up to its first dot.
func baseName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// Convert pipes every recognized file through the converter and writes its
// stdout to the output directory. Unrecognized, existing, unreadable and
// unwritable files are recorded and skipped over. Abnormal converter
// termination stops the run, as does a non-zero exit unless IgnoreErrors.
func (r Runner) Convert(ctx context.Context, req ConvertRequest) Result {
	res := Result{RunID: r.RunID, Kind: KindConversion, StartedAt: time.Now().UTC()}
	res.Counts.Total = len(req.Files)
	em := newEmitter(r.RunID, r.Emit)

	args := req.Args
	if len(args) == 0 {
		args = []string{PipedFlag}
	}

	for i, file := range req.Files {
		if ctx.Err() != nil {
			return r.cancelled(em, &res)
		}
		em.index = i
		res.Started++

		source, err := filepath.Abs(file)
		if err != nil {
			source = file
		}
		dest, ok := DestinationPath(req.OutputDir, file)
		if !ok {
			em.send(EventNotice, fmt.Sprintf("Export2Bin: Skipping file '%s' (file has invalid extension)\n", source))
			res.Counts.Skipped++
			continue
		}
		if !req.Overwrite && fileExists(dest) {
			em.send(EventNotice, fmt.Sprintf("Export2Bin: Skipping file '%s' (file already exists)\n", source))
			res.Counts.Skipped++
			continue
		}

		data, err := os.ReadFile(source)
		if err != nil {
			em.send(EventError, fmt.Sprintf("Export2Bin: Could not open '%s' for reading\n", source))
			res.Counts.Failed++
			continue
		}

		em.send(EventNotice, fmt.Sprintf("Export2Bin: Converting '%s'\n", baseName(file)))

		if data == nil {
			data = []byte{}
		}
		h, err := r.Starter.Start(ctx, process.Spec{
			Program: req.Program,
			Args:    args,
			Dir:     filepath.Dir(source),
			Stdin:   data,
		})
		if err != nil {
			if ctx.Err() != nil {
				return r.cancelled(em, &res)
			}
			em.send(EventError, fmt.Sprintf("ERROR: %v\n", err))
			res.Counts.Failed++
			res.Aborted = true
			return res.settle(OutcomeFailed)
		}

		var stdout, stderr bytes.Buffer
		exit := supervise(ctx, h, func(c process.Chunk) {
			if c.Stream == process.Stderr {
				stderr.Write(c.Data)
				return
			}
			stdout.Write(c.Data)
		})

		if !exit.Normal {
			res.Counts.Failed++
			if ctx.Err() != nil {
				return r.cancelled(em, &res)
			}
			em.send(EventError, "ERROR: Process exited abnormally\n")
			res.Aborted = true
			return res.settle(OutcomeFailed)
		}
		if exit.Code != 0 {
			em.send(EventOutput, stdout.String())
			em.send(EventOutput, stderr.String())
			res.Counts.Failed++
			if !req.IgnoreErrors {
				res.Aborted = true
				return res.settle(OutcomeFailed)
			}
			continue
		}

		if err := fileutil.WriteAtomic(dest, stdout.Bytes(), 0o644); err != nil {
			em.send(EventError, fmt.Sprintf("Export2Bin: Could not open '%s' for writing\n", dest))
			res.Counts.Failed++
			continue
		}
		res.Counts.Succeeded++
	}

	em.index = -1
	em.send(EventSummary, fmt.Sprintf(
		"Export2Bin: Finished!\n\nFiles Processed: %d\nSuccesses: %d\nSkipped: %d\nFailures: %d\n",
		res.Counts.Total, res.Counts.Succeeded, res.Counts.Skipped, res.Counts.Failed,
	))
	return res.settle(OutcomeSucceeded)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

