package cmd

import "pbfiles/internal/model"

type ToolKind int

const (
	ToolCopy ToolKind = iota
	ToolPaste
)

// Tool configures one of the standalone executables.
type Tool struct {
	Name  string
	Kind  ToolKind
	Mode  model.TransferMode
	Use   string
	Short string
	Long  string
}

func CopyTool() Tool {
	return Tool{
		Name:  "pbcopyf",
		Kind:  ToolCopy,
		Use:   "pbcopyf [options] <files ...>",
		Short: "Put files into the clipboard",
		Long: `Pasteboard copy file: put files into pasteboard.

The files can then be pasted in Finder, or into a directory with pbpastef
or pbmovef.`,
	}
}

func PasteTool() Tool {
	return Tool{
		Name:  "pbpastef",
		Kind:  ToolPaste,
		Mode:  model.ModeCopy,
		Use:   "pbpastef [options] <target directory>",
		Short: "Paste files in the clipboard into a directory",
		Long: `Pasteboard paste file: paste files currently in pasteboard to target directory.

Existing files are left alone unless --force is given, in which case they
are moved to the trash before being replaced.`,
	}
}

func MoveTool() Tool {
	return Tool{
		Name:  "pbmovef",
		Kind:  ToolPaste,
		Mode:  model.ModeMove,
		Use:   "pbmovef [options] <target directory>",
		Short: "Move files in the clipboard into a directory",
		Long: `Pasteboard move file: move files currently in pasteboard to target directory.

The original files are moved to the trash once every file has been copied.
Existing files are left alone unless --force is given, in which case they
are moved to the trash before being replaced.`,
	}
}

func ToolByName(name string) (Tool, bool) {
	for _, tool := range []Tool{CopyTool(), PasteTool(), MoveTool()} {
		if tool.Name == name {
			return tool, true
		}
	}
	return Tool{}, false
}
