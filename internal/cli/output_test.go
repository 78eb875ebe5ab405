package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Render(data, func(io.Writer) error { return nil })
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	tests := []struct {
		name        string
		code        string
		message     string
		details     any
		wantDetails bool
	}{
		{"without details", ErrCodeGeneric, "failed to load exports", nil, false},
		{"with details", ErrCodeMissingColumn, "missing required column", map[string]string{"file": "orders.csv"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: FormatJSON, Writer: buf}
			require.NoError(t, formatter.Error(tt.code, tt.message, tt.details))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.message, resp.Error.Message)
			assert.Equal(t, tt.wantDetails, resp.Error.Details != nil)
			assert.Nil(t, resp.Data)
		})
	}
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E001", "failed to load exports", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "failed to load exports")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"file": "orders.csv"}
	err := formatter.Error("E001", "failed to load exports", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E001]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Processing %s", "orders.csv")

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Processing orders.csv")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_JSONKeepsAmpersands(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"title": "Mass & Gainer <2lb>"}
	require.NoError(t, formatter.Render(data, func(io.Writer) error { return nil }))
	assert.Contains(t, buf.String(), "Mass & Gainer <2lb>")
}

func TestOutputFormatter_RenderText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatText, Writer: buf}

	err := formatter.Render([]string{"a"}, func(w io.Writer) error {
		_, err := io.WriteString(w, "1 run\n")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "1 run\n", buf.String())
}

func TestOutputFormatter_RenderJSONSkipsText(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: FormatJSON, Writer: buf}

	called := false
	err := formatter.Render(map[string]int{"runs": 1}, func(w io.Writer) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.JSONEq(t, `{"status":"ok","data":{"runs":1}}`, buf.String())
}
