package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/davecgh/go-spew/spew"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// render writes v to stdout in the selected output format.
func render(v any) {
	if err := renderTo(os.Stdout, v); err != nil {
		log.Fatal(err)
	}
}

func renderTo(w io.Writer, v any) error {
	// raw payloads are rendered as the values they encode
	if raw, ok := v.(json.RawMessage); ok {
		var decoded any

		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &decoded); err != nil {
				return err
			}
		}

		v = decoded
	}

	switch model.OutputFormat(outputFormat) {
	case model.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	case model.OutputDump:
		spew.Fdump(w, v)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		fmt.Fprintln(w, string(b))
	}

	return nil
}

// renderPayload renders the response payload of a mutation, an empty payload is skipped.
func renderPayload(payload json.RawMessage) {
	if len(payload) == 0 {
		return
	}

	render(payload)
}

// mustSucceed returns the result data, a failed result is fatal.
func mustSucceed[T any](logger *logrus.Logger, r operation.Result[T]) T {
	if !r.OK() {
		logger.Fatal(r.Message)
	}

	return r.Data
}
