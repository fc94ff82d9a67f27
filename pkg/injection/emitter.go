package injection

import (
	"fmt"
	"io"
	"strings"
)

// DefaultChunkSize bounds a single payload write to the output stream.
// The bound is a sink constraint, not an architectural one.
const DefaultChunkSize = 4000

// pathHelper is defined with an idempotent guard on every fragment, so the
// merge contract holds regardless of how many injections share a page and
// in which order their fragments execute.
const pathHelper = `if(!window.__ljoCreatePath){window.__ljoCreatePath=function(root,path){var parts=path.split(".");var node=root;for(var i=0;i<parts.length;i++){var key=parts[i];if(node[key]===undefined||node[key]===null){node[key]={};}node=node[key];}return node;};}`

// Emitter produces the self-contained script fragment that creates the
// target path and shallow-merges a payload into it. The payload is embedded
// verbatim: it is trusted pre-serialized JSON produced by a source adapter,
// and escaping it here would corrupt it. Only the target path, which is
// developer-supplied free text, goes through script-string escaping.
type Emitter struct {
	chunkSize int
}

func NewEmitter(chunkSize int) *Emitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Emitter{chunkSize: chunkSize}
}

// Emit writes the full fragment to w. The target path is validated before
// anything is written, so a failed call leaves the stream untouched. The
// surrounding control fragment is short and written whole; the payload is
// written in bounded sequential chunks.
func (e *Emitter) Emit(w io.Writer, targetPath string, payload Payload) error {
	if _, err := ParseTargetPath(targetPath); err != nil {
		return err
	}

	escapedPath := EscapeScriptString(targetPath)

	var prologue strings.Builder
	prologue.WriteString("<script>\n(function(){\n")
	prologue.WriteString(pathHelper)
	prologue.WriteString("\n")
	fmt.Fprintf(&prologue, "var target=window.__ljoCreatePath(window,\"%s\");\n", escapedPath)
	prologue.WriteString("var value=")

	const epilogue = ";\nfor(var key in value){if(Object.prototype.hasOwnProperty.call(value,key)){target[key]=value[key];}}\n})();\n</script>\n"

	if _, err := io.WriteString(w, prologue.String()); err != nil {
		return err
	}
	if err := writeChunked(w, string(payload), e.chunkSize); err != nil {
		return err
	}
	if _, err := io.WriteString(w, epilogue); err != nil {
		return err
	}
	return nil
}

// writeChunked writes text in order as a sequence of writes no larger than
// size bytes each.
func writeChunked(w io.Writer, text string, size int) error {
	for len(text) > 0 {
		n := size
		if n > len(text) {
			n = len(text)
		}
		if _, err := io.WriteString(w, text[:n]); err != nil {
			return err
		}
		text = text[n:]
	}
	return nil
}
