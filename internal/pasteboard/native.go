package pasteboard

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"pbfiles/internal/model"
	"strings"
)

const (
	fileURLType   = "public.file-url"
	plainTextType = "public.utf8-plain-text"
)

// readScript prints one file URL per line. File reference URLs
// (file:///.file/id=...) are turned into path URLs first.
const readScript = `ObjC.import('AppKit');
function run() {
	var items = $.NSPasteboard.generalPasteboard.pasteboardItems;
	if (items.isNil()) { return ''; }
	var out = [];
	for (var i = 0; i < items.count; i++) {
		var s = items.objectAtIndex(i).stringForType($('` + fileURLType + `'));
		if (s.isNil()) { continue; }
		var u = $.NSURL.URLWithString(s);
		if (!u.isNil() && !u.filePathURL.isNil()) { s = u.filePathURL.absoluteString; }
		out.push(s.js);
	}
	return out.join('\n');
}`

// writeScript takes URL/name argument pairs and answers "ok" when the
// pasteboard accepted them.
const writeScript = `ObjC.import('AppKit');
function run(argv) {
	var pb = $.NSPasteboard.generalPasteboard;
	pb.clearContents;
	var items = $.NSMutableArray.alloc.init;
	for (var i = 0; i + 1 < argv.length; i += 2) {
		var item = $.NSPasteboardItem.alloc.init;
		item.setStringForType($(argv[i]), $('` + fileURLType + `'));
		item.setStringForType($(argv[i + 1]), $('` + plainTextType + `'));
		items.addObject(item);
	}
	return pb.writeObjects(items) ? 'ok' : 'fail';
}`

// Runner runs a JavaScript for Automation script with arguments and returns
// its standard output.
type Runner func(script string, args ...string) ([]byte, error)

// Native talks to NSPasteboard through osascript, writing each file as an
// item carrying both a file URL and its plain-text name.
type Native struct {
	run Runner
}

func NewNative() *Native {
	return &Native{run: osascript}
}

func NewNativeWithRunner(run Runner) *Native {
	return &Native{run: run}
}

func (n *Native) Read() ([]model.FileRef, error) {
	out, err := n.run(readScript)
	if err != nil {
		return nil, model.WrapError(model.KindClipboardUnavailable, "", err)
	}

	var refs []model.FileRef
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		ref := model.FileRef{URL: line}
		p, err := Path(ref)
		if err != nil {
			return nil, err
		}
		ref.Name = filepath.Base(p)
		refs = append(refs, ref)
	}

	return refs, nil
}

func (n *Native) Write(refs []model.FileRef) error {
	args := make([]string, 0, 2*len(refs))
	for _, ref := range refs {
		args = append(args, ref.URL, ref.Name)
	}

	out, err := n.run(writeScript, args...)
	if err != nil {
		return model.WrapError(model.KindClipboardWriteFailed, "", err)
	}
	if strings.TrimSpace(string(out)) != "ok" {
		return model.NewError(model.KindClipboardWriteFailed, "", "")
	}

	return nil
}

func osascript(script string, args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-l", "JavaScript", "-e", script}, args...)
	cmd := exec.Command("osascript", cmdArgs...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("osascript failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("osascript failed: %w", err)
	}
	return output, nil
}
