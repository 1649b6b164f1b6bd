package reporters

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/jwalton/gchalk"
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/jwalton/tabdl/pkg/outcome"
	"github.com/jwalton/tabdl/pkg/tabdl"
	"golang.org/x/term"
)

const maxWidth = 100

var progressBarForeground = gchalk.WithBgCyan().Black
var progressBarBackground = gchalk.WithBgBrightBlack().BrightWhite

type transferEntry struct {
	progress *download.Progress
	label    string
}

type progressBarReporter struct {
	mutex  sync.Mutex
	width  int
	height int
	// This is the number of lines we want to erase at the start of the next render.
	linesToErase int
	// Map of entries that are currently transferring, indexed by URL.
	transferring map[string]*transferEntry
}

// moveUp moves the cursor up the specified number of lines.
func (*progressBarReporter) moveUp(lines int) {
	fmt.Printf("[%dA\r", lines)
}

func (p *progressBarReporter) getScreenSize() (width int, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		// Use the last width we had.
		width = p.width
		height = p.height
	}

	if width > maxWidth {
		width = maxWidth
	}

	p.width = width
	p.height = height

	return width, height
}

func (p *progressBarReporter) render(message string) {
	width, height := p.getScreenSize()

	// Move the cursor to the top of the area we want to overwrite.
	if p.linesToErase > 1 {
		p.moveUp(p.linesToErase - 1)
	}

	// If there's a message, print it.
	if message != "" {
		fmt.Print("\r" + strings.Repeat(" ", width))
		fmt.Println("\r" + message)
	}

	items := make([]*transferEntry, 0, len(p.transferring))
	for _, entry := range p.transferring {
		items = append(items, entry)
	}

	// Sort items so most complete ones are at the top.
	sort.Slice(items, func(i int, j int) bool {
		return items[i].progress.PercentComplete > items[j].progress.PercentComplete
	})

	// Don't print more lines than will fit on the screen.
	if len(items) > (height - 1) {
		items = items[0 : height-1]
	}

	for index, item := range items {
		p.renderItem(item, width)
		if index != len(items)-1 {
			fmt.Println()
		}
	}

	p.linesToErase = len(items)
}

func (p *progressBarReporter) renderItem(entry *transferEntry, width int) {
	label := entry.label
	complete := fmt.Sprintf("%.2f%%", entry.progress.PercentComplete)

	strWidth := len(label) + len(complete) + 2 // +1 for space, +1 for left margin.
	lineWidth := width - 1
	if strWidth > lineWidth {
		over := strWidth - lineWidth
		label = label[0:len(label)-(over+1)] + "… "
	}

	strWidth = len(label) + len(complete)
	marginLeft := 1
	marginRight := lineWidth - strWidth - marginLeft
	if marginRight < 0 {
		marginRight = 0
	}

	line := strings.Repeat(" ", marginLeft) + label + " " + complete + strings.Repeat(" ", marginRight)

	completeWidth := int(float64(width) * (entry.progress.PercentComplete / 100.0))
	if completeWidth > len(line) {
		// Paranoid...
		completeWidth = len(line)
	}
	if completeWidth < 0 {
		// This will happen if we don't know the length of the file.
		completeWidth = 0
	}

	// The part that will be colored in the "done" color
	lineLeft := line[:completeWidth]
	// The part that will be colored in the "not done" color
	lineRight := line[completeWidth:]

	fmt.Printf("\r%s%s",
		progressBarForeground(lineLeft),
		progressBarBackground(lineRight),
	)
}

func getURLLabel(url string) string {
	label := path.Base(url)
	if label == "" || label == "." || label == "/" {
		label = url
	}
	return label
}

func (p *progressBarReporter) FetchStart(url string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	message := fmt.Sprintf("%s Fetching %s", gchalk.BrightBlue("Info    :"), url)
	p.render(message)
}

func (p *progressBarReporter) FetchProgress(url string, progress *download.Progress) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if _, exists := p.transferring[url]; exists {
		p.transferring[url].progress = progress
	} else {
		p.transferring[url] = &transferEntry{
			label:    getURLLabel(url),
			progress: progress,
		}
	}

	// If there's a warning, print it.
	message := ""
	if progress.Warning != "" {
		message = fmt.Sprintf("%s %s: %s",
			gchalk.BrightYellow("Warning :"),
			getURLLabel(url),
			progress.Warning,
		)
	}

	p.render(message)
}

func (p *progressBarReporter) FetchEnd(url string, record *outcome.Record) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	delete(p.transferring, url)
	var message string
	if record.Success {
		message = gchalk.BrightGreen("Complete: ") + getURLLabel(url)
	} else {
		message = fmt.Sprintf("%s %s: %s", gchalk.BrightRed("Error   :"), getURLLabel(url), record.Message)
	}
	p.render(message)
}

func (p *progressBarReporter) Done() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.linesToErase > 0 {
		fmt.Println()
		p.linesToErase = 0
	}
}

// NewProgressBarReporter returns a new FetchReporter which shows a pretty
// progress bar.
func NewProgressBarReporter() (tabdl.FetchReporter, error) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))

	if err != nil {
		return nil, err
	}

	return &progressBarReporter{
		width:        width,
		height:       height,
		linesToErase: 0,
		transferring: map[string]*transferEntry{},
	}, nil
}
