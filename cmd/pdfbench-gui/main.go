package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/kpauljoseph/pdfbench/internal/batch"
	"github.com/kpauljoseph/pdfbench/internal/config"
	"github.com/kpauljoseph/pdfbench/internal/pdf"
	"github.com/kpauljoseph/pdfbench/internal/scanner"
	"github.com/kpauljoseph/pdfbench/pkg/logger"
	"github.com/kpauljoseph/pdfbench/pkg/models"
	"github.com/kpauljoseph/pdfbench/pkg/updater"
	"github.com/kpauljoseph/pdfbench/pkg/utils"
	"github.com/kpauljoseph/pdfbench/pkg/version"
)

type PDFBenchGUI struct {
	window      fyne.Window
	log         *logger.Logger
	scanner     *scanner.DirectoryScanner
	mutex       sync.Mutex
	logFileName string

	// batch state
	running bool
	cancel  context.CancelFunc

	// shared controls
	outputDirEntry *widget.Entry
	verboseCheck   *widget.Check
	progress       *widget.ProgressBar
	status         *widget.Label
	cancelBtn      *widget.Button

	// split tab
	splitFileEntry  *widget.Entry
	splitPagesEntry *widget.Entry

	// merge tab
	mergeFiles    []string
	mergeList     *widget.List
	mergeOutEntry *widget.Entry

	// document tab
	docFileEntry *widget.Entry

	// image tab
	imgFileEntry  *widget.Entry
	imgDPIEntry   *widget.Entry
	imgFormat     *widget.Select
	imgPagesEntry *widget.Entry
}

func setupLogging() (*logger.Logger, string, error) {
	logDir := filepath.Join(os.TempDir(), "pdfbench-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, "", err
	}

	logFileName := filepath.Join(logDir, fmt.Sprintf("pdfbench-%s.log", time.Now().Format("2006-01-02-15-04-05")))
	logFile, err := os.Create(logFileName)
	if err != nil {
		return nil, "", err
	}

	log := logger.New(
		logger.WithPrefix("[pdfbench-gui] "),
		logger.WithOutput(io.MultiWriter(os.Stdout, logFile)),
	)
	return log, logFileName, nil
}

func NewPDFBenchGUI() *PDFBenchGUI {
	log, logFileName, err := setupLogging()
	if err != nil {
		log = logger.New(logger.WithPrefix("[pdfbench-gui] "))
		fmt.Printf("Warning: Failed to set up logging: %v\n", err)
	}

	benchApp := app.New()
	window := benchApp.NewWindow("PDFBench")
	if bundledIcon, err := fyne.LoadResourceFromPath("assets/icons/png/icon-128.png"); err == nil {
		benchApp.SetIcon(bundledIcon)
		window.SetIcon(bundledIcon)
	}

	return &PDFBenchGUI{
		window:      window,
		log:         log,
		scanner:     scanner.New(log),
		logFileName: logFileName,
	}
}

func (gui *PDFBenchGUI) setupUI() {
	// Shared output directory selection
	gui.outputDirEntry = widget.NewEntry()
	gui.outputDirEntry.SetPlaceHolder("Output Directory (defaults to a temporary directory)")
	browseOutputBtn := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, gui.window)
				return
			}
			if uri == nil {
				return
			}
			gui.outputDirEntry.SetText(uri.Path())
		}, gui.window)
	})
	outputDirContainer := container.NewBorder(nil, nil, nil, browseOutputBtn, gui.outputDirEntry)

	gui.verboseCheck = widget.NewCheck("Verbose Logging", func(checked bool) {
		gui.log.SetVerbose(checked)
	})

	gui.progress = widget.NewProgressBar()
	gui.progress.Hide()
	gui.status = widget.NewLabel("Ready to process files...")

	gui.cancelBtn = widget.NewButton("Cancel Remaining", func() {
		gui.mutex.Lock()
		if gui.cancel != nil {
			gui.cancel()
		}
		gui.mutex.Unlock()
	})
	gui.cancelBtn.Hide()

	tabs := container.NewAppTabs(
		container.NewTabItem("Split", gui.buildSplitTab()),
		container.NewTabItem("Merge", gui.buildMergeTab()),
		container.NewTabItem("To Document", gui.buildDocumentTab()),
		container.NewTabItem("To Images", gui.buildImageTab()),
	)

	content := container.NewVBox(
		widget.NewLabelWithStyle("PDFBench", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		tabs,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Output", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		outputDirContainer,
		gui.verboseCheck,
		gui.progress,
		container.NewBorder(nil, nil, nil, gui.cancelBtn, gui.status),
	)

	gui.window.SetContent(container.NewPadded(container.NewScroll(content)))
	gui.window.Resize(fyne.NewSize(720, 640))
}

func (gui *PDFBenchGUI) buildSplitTab() fyne.CanvasObject {
	gui.splitFileEntry = widget.NewEntry()
	gui.splitFileEntry.SetPlaceHolder("Select a PDF to split")
	browseBtn := widget.NewButton("Browse", func() { gui.pickPDF(gui.splitFileEntry) })

	gui.splitPagesEntry = widget.NewEntry()
	gui.splitPagesEntry.SetPlaceHolder(`Page ranges, e.g. "1-3,5,7-9"`)

	splitBtn := widget.NewButton("Split PDF", gui.handleSplit)
	splitBtn.Importance = widget.HighImportance

	return container.NewVBox(
		widget.NewLabel("Each contiguous page run becomes its own output file."),
		container.NewBorder(nil, nil, nil, browseBtn, gui.splitFileEntry),
		gui.splitPagesEntry,
		splitBtn,
	)
}

func (gui *PDFBenchGUI) buildMergeTab() fyne.CanvasObject {
	gui.mergeList = widget.NewList(
		func() int { return len(gui.mergeFiles) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(filepath.Base(gui.mergeFiles[i]))
		},
	)

	addBtn := widget.NewButton("Add PDF", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil {
				dialog.ShowError(err, gui.window)
				return
			}
			if reader == nil {
				return
			}
			reader.Close()
			gui.mergeFiles = append(gui.mergeFiles, reader.URI().Path())
			gui.mergeList.Refresh()
		}, gui.window)
	})

	addFolderBtn := widget.NewButton("Add Folder", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil {
				dialog.ShowError(err, gui.window)
				return
			}
			if uri == nil {
				return
			}
			found, err := gui.scanner.FindPDFs(context.Background(), uri.Path())
			if err != nil {
				dialog.ShowError(err, gui.window)
				return
			}
			gui.mergeFiles = append(gui.mergeFiles, found...)
			gui.mergeList.Refresh()
		}, gui.window)
	})

	clearBtn := widget.NewButton("Clear", func() {
		gui.mergeFiles = nil
		gui.mergeList.Refresh()
	})

	gui.mergeOutEntry = widget.NewEntry()
	gui.mergeOutEntry.SetPlaceHolder("merged.pdf")

	mergeBtn := widget.NewButton("Merge PDFs", gui.handleMerge)
	mergeBtn.Importance = widget.HighImportance

	listContainer := container.NewVScroll(gui.mergeList)
	listContainer.SetMinSize(fyne.NewSize(0, 160))

	return container.NewVBox(
		widget.NewLabel("Files are merged in list order."),
		listContainer,
		container.NewHBox(addBtn, addFolderBtn, clearBtn),
		widget.NewLabel("Output file name:"),
		gui.mergeOutEntry,
		mergeBtn,
	)
}

func (gui *PDFBenchGUI) buildDocumentTab() fyne.CanvasObject {
	gui.docFileEntry = widget.NewEntry()
	gui.docFileEntry.SetPlaceHolder("Select a PDF to convert")
	browseBtn := widget.NewButton("Browse", func() { gui.pickPDF(gui.docFileEntry) })

	convertBtn := widget.NewButton("Convert to Document", gui.handleToDocument)
	convertBtn.Importance = widget.HighImportance

	return container.NewVBox(
		widget.NewLabel("Converts the whole PDF into one editable HTML document."),
		container.NewBorder(nil, nil, nil, browseBtn, gui.docFileEntry),
		convertBtn,
	)
}

func (gui *PDFBenchGUI) buildImageTab() fyne.CanvasObject {
	gui.imgFileEntry = widget.NewEntry()
	gui.imgFileEntry.SetPlaceHolder("Select a PDF to render")
	browseBtn := widget.NewButton("Browse", func() { gui.pickPDF(gui.imgFileEntry) })

	gui.imgDPIEntry = widget.NewEntry()
	gui.imgDPIEntry.SetText(strconv.Itoa(config.DefaultDPI))

	gui.imgFormat = widget.NewSelect([]string{"png", "jpeg", "tiff"}, nil)
	gui.imgFormat.SetSelected(config.DefaultImageFormat)

	gui.imgPagesEntry = widget.NewEntry()
	gui.imgPagesEntry.SetPlaceHolder(`Pages to render, e.g. "1-3,5" (empty = all)`)

	renderBtn := widget.NewButton("Convert to Images", gui.handleToImages)
	renderBtn.Importance = widget.HighImportance

	settings := container.NewGridWithColumns(2,
		widget.NewLabel("DPI:"), gui.imgDPIEntry,
		widget.NewLabel("Format:"), gui.imgFormat,
	)

	return container.NewVBox(
		widget.NewLabel("One image per page, named <source>-<page>.<ext>."),
		container.NewBorder(nil, nil, nil, browseBtn, gui.imgFileEntry),
		settings,
		gui.imgPagesEntry,
		renderBtn,
	)
}

func (gui *PDFBenchGUI) pickPDF(target *widget.Entry) {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, gui.window)
			return
		}
		if reader == nil {
			return
		}
		reader.Close()
		target.SetText(reader.URI().Path())
	}, gui.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.Show()
}

func (gui *PDFBenchGUI) outputDir() string {
	if gui.outputDirEntry.Text != "" {
		return gui.outputDirEntry.Text
	}
	dir := utils.GetDefaultOutputDir()
	gui.outputDirEntry.SetText(dir)
	return dir
}

func (gui *PDFBenchGUI) handleSplit() {
	if gui.splitFileEntry.Text == "" {
		dialog.ShowError(fmt.Errorf("please select a PDF file"), gui.window)
		return
	}
	if strings.TrimSpace(gui.splitPagesEntry.Text) == "" {
		dialog.ShowError(fmt.Errorf("please enter a page range, e.g. 1-3,5"), gui.window)
		return
	}

	item := models.NewSplitJob(gui.splitFileEntry.Text, gui.splitPagesEntry.Text, gui.outputDir())
	gui.runBatch([]models.JobItem{item})
}

func (gui *PDFBenchGUI) handleMerge() {
	if len(gui.mergeFiles) == 0 {
		dialog.ShowError(fmt.Errorf("please add at least one PDF file"), gui.window)
		return
	}
	outName := gui.mergeOutEntry.Text
	if outName == "" {
		outName = "merged.pdf"
	}

	item := models.NewMergeJob(gui.mergeFiles, filepath.Join(gui.outputDir(), outName))
	gui.runBatch([]models.JobItem{item})
}

func (gui *PDFBenchGUI) handleToDocument() {
	if gui.docFileEntry.Text == "" {
		dialog.ShowError(fmt.Errorf("please select a PDF file"), gui.window)
		return
	}

	input := gui.docFileEntry.Text
	outPath := filepath.Join(gui.outputDir(), utils.DocumentFileName(utils.BaseName(input)))
	gui.runBatch([]models.JobItem{models.NewDocumentJob(input, outPath)})
}

func (gui *PDFBenchGUI) handleToImages() {
	if gui.imgFileEntry.Text == "" {
		dialog.ShowError(fmt.Errorf("please select a PDF file"), gui.window)
		return
	}
	dpi, err := strconv.Atoi(gui.imgDPIEntry.Text)
	if err != nil || dpi <= 0 {
		dialog.ShowError(fmt.Errorf("invalid DPI value"), gui.window)
		return
	}

	item := models.NewImageJob(gui.imgFileEntry.Text, gui.outputDir(), dpi, gui.imgFormat.Selected, gui.imgPagesEntry.Text)
	gui.runBatch([]models.JobItem{item})
}

// runBatch executes items on a background worker, one conversion at a
// time, and drains progress into the status widgets.
func (gui *PDFBenchGUI) runBatch(items []models.JobItem) {
	gui.mutex.Lock()
	if gui.running {
		gui.mutex.Unlock()
		dialog.ShowInformation("Busy", "A batch is already running.", gui.window)
		return
	}
	gui.running = true
	ctx, cancel := context.WithCancel(context.Background())
	gui.cancel = cancel
	gui.mutex.Unlock()

	gui.progress.SetValue(0)
	gui.progress.Show()
	gui.cancelBtn.Show()
	gui.updateStatus(fmt.Sprintf("Processing %d job(s)...", len(items)))

	runner := batch.NewRunner(pdf.NewConverter(gui.log), gui.log)
	progress := make(chan models.Progress, len(items))

	go func() {
		for p := range progress {
			gui.progress.SetValue(float64(p.Completed) / float64(p.Total))
			gui.updateStatus(fmt.Sprintf("[%d/%d] %s %s: %s",
				p.Completed, p.Total, p.Last.Kind, filepath.Base(p.Last.Input), p.Last.Status))
		}
	}()

	go func() {
		results, err := runner.Run(ctx, items, progress)
		close(progress)
		cancel()

		gui.mutex.Lock()
		gui.running = false
		gui.cancel = nil
		gui.mutex.Unlock()

		gui.progress.Hide()
		gui.cancelBtn.Hide()

		if err != nil {
			gui.log.Warn("Batch rejected: %v", err)
			gui.updateStatus("Batch rejected")
			gui.showError(err.Error())
			return
		}
		gui.showCompletion(results)
	}()
}

func (gui *PDFBenchGUI) showCompletion(results []models.JobResult) {
	var succeeded, failed, skipped int
	var lines []string
	var outputs []string

	for _, res := range results {
		switch res.Status {
		case models.StatusCompleted:
			succeeded++
			outputs = append(outputs, res.OutputPaths...)
		case models.StatusFailed:
			failed++
			lines = append(lines, fmt.Sprintf("%s: %s", filepath.Base(res.Input), res.ErrorMessage))
		case models.StatusSkipped:
			skipped++
		}
	}

	gui.log.Info("Batch complete: %d succeeded, %d failed, %d skipped", succeeded, failed, skipped)
	gui.updateStatus(fmt.Sprintf("Done: %d succeeded, %d failed, %d skipped", succeeded, failed, skipped))

	if failed > 0 {
		dialog.ShowError(fmt.Errorf("some jobs failed:\n%s", strings.Join(lines, "\n")), gui.window)
		return
	}

	message := fmt.Sprintf("%d job(s) completed, %d output file(s).", succeeded, len(outputs))
	if len(outputs) > 0 {
		message += "\n\nFirst output:\n" + outputs[0]
	}
	dialog.ShowInformation("Processing Complete", message, gui.window)
}

func (gui *PDFBenchGUI) showError(message string) {
	notification := fyne.NewNotification("Error", message)
	fyne.CurrentApp().SendNotification(notification)
}

func (gui *PDFBenchGUI) updateStatus(message string) {
	gui.status.SetText(message)
}

func (gui *PDFBenchGUI) checkForUpdates() {
	go func() {
		info, err := updater.NewChecker(gui.log).CheckForUpdates()
		if err != nil {
			gui.log.Debug("Update check failed: %v", err)
			return
		}
		if info != nil && info.IsAvailable {
			dialog.ShowInformation("Update Available",
				fmt.Sprintf("PDFBench %s is available (you have %s).\n%s",
					info.LatestVersion, info.CurrentVersion, info.DownloadURL),
				gui.window)
		}
	}()
}

func main() {
	gui := NewPDFBenchGUI()
	gui.log.Info("Starting %s", version.GetVersionInfo())
	if gui.logFileName != "" {
		gui.log.Info("Log file: %s", gui.logFileName)
	}

	gui.setupUI()
	gui.checkForUpdates()
	gui.window.ShowAndRun()
}
