package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/muurk/rdmscope/internal/capture"
	"github.com/muurk/rdmscope/internal/logging"
	"github.com/muurk/rdmscope/internal/rdm"
	"github.com/muurk/rdmscope/internal/render"
	"github.com/muurk/rdmscope/internal/ui"
)

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(pidsCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(nickCmd)

	decodeCmd.Flags().StringVarP(&decodeFile, "file", "f", "", "Read one raw binary message from a file (- for stdin)")
	decodeCmd.Flags().IntVar(&decodeLength, "length", 0, "Declared buffer length (default: number of bytes given)")
	decodeCmd.Flags().BoolVar(&decodeRemember, "remember", false, "Record the UIDs seen in the config file")

	replayCmd.Flags().StringVar(&replaySource, "source", "", "Only replay records from this source")
	replayCmd.Flags().StringVar(&replayDirection, "direction", "", "Only replay records in this direction (in, out)")
	replayCmd.Flags().BoolVar(&replayView, "view", false, "Browse the capture interactively")

	buildCmd.Flags().StringVar(&buildDest, "dest", "ffff:ffffffff", "Destination UID")
	buildCmd.Flags().StringVar(&buildSrc, "src", "7a70:00000001", "Source UID")
	buildCmd.Flags().IntVar(&buildTN, "tn", -1, "Transaction number (default: next in sequence)")
	buildCmd.Flags().Uint8Var(&buildPort, "port", 1, "Port ID for commands")
	buildCmd.Flags().StringVar(&buildResponse, "response", "ack", "Response type for responses (ack, ack-timer, nack, ack-overflow)")
	buildCmd.Flags().Uint8Var(&buildCount, "count", 0, "Message count")
	buildCmd.Flags().Uint16Var(&buildSubDevice, "sub-device", 0, "Sub-device")
	buildCmd.Flags().StringVar(&buildCC, "cc", "get", "Command class (get, set, get-response, ...)")
	buildCmd.Flags().StringVar(&buildPID, "pid", "", "Parameter ID, by name or number")
	buildCmd.Flags().StringVar(&buildData, "data", "", "Parameter data as hex")
	buildCmd.Flags().BoolVar(&buildRaw, "raw", false, "Write raw bytes instead of hex")
	buildCmd.Flags().BoolVar(&buildDecode, "decode", false, "Decode the built message as well")
	_ = buildCmd.MarkFlagRequired("pid")

	pidsCmd.Flags().BoolVar(&pidsVendor, "vendor", false, "List manufacturer specific parameters")

	viewCmd.Flags().StringVar(&viewCapture, "capture", "", "Browse a capture file")

	nickCmd.Flags().BoolVar(&nickClear, "clear", false, "Remove the nickname")
}

// readMessages collects messages from a file, the arguments or stdin lines
func readMessages(args []string, file string, length int) ([]rdm.Message, error) {
	if file != "" {
		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		return []rdm.Message{withLength(data, length)}, nil
	}

	if len(args) > 0 {
		data, err := rdm.ParseHex(strings.Join(args, " "))
		if err != nil {
			return nil, err
		}
		return []rdm.Message{withLength(data, length)}, nil
	}

	var msgs []rdm.Message
	scanner := bufio.NewScanner(os.Stdin)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		data, err := rdm.ParseHex(line)
		if err != nil {
			return nil, fmt.Errorf("stdin line %d: %w", lineNo, err)
		}
		msgs = append(msgs, withLength(data, length))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	if len(msgs) == 0 {
		return nil, errors.New("no message given")
	}
	return msgs, nil
}

func withLength(data []byte, length int) rdm.Message {
	msg := rdm.NewMessage(data)
	if length > 0 {
		msg.Length = length
	}
	return msg
}

// Decode command
var (
	decodeFile     string
	decodeLength   int
	decodeRemember bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode [hex...]",
	Short: "Decode RDM messages",
	Long: `Decode one or more RDM messages and print the annotated field tree.

The message can be given as hex arguments, as a raw binary file with --file,
or as hex lines on stdin (one message per line, # starts a comment).

A message that runs out of bytes is still printed up to the point of failure,
followed by the error.`,
	Example: `  # Decode a GET DEVICE_INFO request
  rdmscope decode 01184a4d000000017a700000000100010000002000600002e9

  # Decode a hex dump with separators
  rdmscope decode "01 18 4a 4d 00 00 00 01 7a 70 ..."

  # Decode a raw capture as JSON
  rdmscope decode --file message.bin --format json

  # Decode many messages, one per line
  cat messages.txt | rdmscope decode --header=false`,
	RunE: runDecode,
}

func runDecode(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	r, err := a.renderer(cmd)
	if err != nil {
		return err
	}
	msgs, err := readMessages(args, decodeFile, decodeLength)
	if err != nil {
		return err
	}

	failed := 0
	for i, msg := range msgs {
		if i > 0 && a.outputFormat() == render.FormatText {
			fmt.Println()
		}
		logging.LogRawBytes("Decoding message", msg.Data)
		res, decodeErr := a.decoder.Decode(msg)
		if decodeErr != nil {
			failed++
		}
		if err := r.Render(os.Stdout, res, decodeErr); err != nil {
			return err
		}
		if decodeRemember {
			a.remember(res)
		}
	}

	if decodeRemember {
		if err := a.registry.SaveTo(a.registryPath); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d message(s) could not be fully decoded", failed, len(msgs))
	}
	return nil
}

// Replay command
var (
	replaySource    string
	replayDirection string
	replayView      bool
)

var replayCmd = &cobra.Command{
	Use:   "replay <capture>",
	Short: "Decode every message in a capture file",
	Long: `Decode every record in a capture file written by 'rdmscope serve' or by
hand. Files ending in .cbor are read as CBOR, anything else as JSON lines.

A summary of checksum results is printed to stderr when it is a terminal.`,
	Example: `  rdmscope replay captures/capture-20260101-120000.jsonl
  rdmscope replay bench.cbor --source 10.0.0.7:51234 --format json
  rdmscope replay bench.jsonl --view`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

type replayStats struct {
	total, ok, mismatch, missing, failed int
}

func (s *replayStats) add(res *rdm.Result, err error) {
	s.total++
	if err != nil {
		s.failed++
	}
	if res == nil {
		return
	}
	switch res.Checksum.Status {
	case rdm.ChecksumOK:
		s.ok++
	case rdm.ChecksumMismatch:
		s.mismatch++
	case rdm.ChecksumMissing:
		s.missing++
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	path := args[0]
	reader, err := capture.OpenReader(path, capture.Filter{
		Source:    replaySource,
		Direction: capture.Direction(replayDirection),
	})
	if err != nil {
		return err
	}
	defer reader.Close()

	if replayView {
		var entries []ui.Entry
		for {
			rec, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return err
			}
			res, decodeErr := a.decoder.Decode(rec.Message())
			entries = append(entries, ui.Entry{
				Label:  fmt.Sprintf("#%d %s", rec.Seq, rec.Source),
				Raw:    rec.Data,
				Result: res,
				Err:    decodeErr,
			})
		}
		return ui.RunViewer(entries, a.renderOptions(cmd))
	}

	r, err := a.renderer(cmd)
	if err != nil {
		return err
	}
	text := a.outputFormat() == render.FormatText
	status := ui.NewPrinter(os.Stderr)
	interactive := ui.IsTerminal(os.Stderr)
	if interactive {
		status.PrintHeader("Replay", "rdmscope replay "+path, ui.Param{Key: "Format", Value: a.outputFormat()})
	}

	var stats replayStats
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		logging.LogRawBytes("Replaying record", rec.Data)
		res, decodeErr := a.decoder.Decode(rec.Message())
		stats.add(res, decodeErr)
		if text {
			if stats.total > 1 {
				fmt.Println()
			}
			fmt.Printf("# %d %s %s %s\n", rec.Seq, rec.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"), rec.Source, rec.Direction)
		}
		if err := r.Render(os.Stdout, res, decodeErr); err != nil {
			return err
		}
	}

	if interactive {
		details := []ui.Param{
			{Key: "Messages", Value: fmt.Sprint(stats.total)},
			{Key: "Checksum ok", Value: fmt.Sprint(stats.ok)},
			{Key: "Checksum mismatch", Value: fmt.Sprint(stats.mismatch)},
			{Key: "Checksum missing", Value: fmt.Sprint(stats.missing)},
			{Key: "Decode errors", Value: fmt.Sprint(stats.failed)},
		}
		if stats.failed > 0 || stats.mismatch > 0 {
			status.PrintResult(ui.NewWarningResult("Replay finished with problems", details...))
		} else {
			status.PrintSuccess("Replay finished", details...)
		}
	}
	if stats.total == 0 {
		return fmt.Errorf("no records in %s matched", path)
	}
	return nil
}

// Build command
var (
	buildDest      string
	buildSrc       string
	buildTN        int
	buildPort      uint8
	buildResponse  string
	buildCount     uint8
	buildSubDevice uint16
	buildCC        string
	buildPID       string
	buildData      string
	buildRaw       bool
	buildDecode    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build an RDM message",
	Long: `Build a well formed RDM message with a correct length and checksum.

Useful for feeding test vectors to fixtures and to the decoder itself.`,
	Example: `  # GET DEVICE_INFO to a fixture
  rdmscope build --dest 4a4d:00000001 --pid DEVICE_INFO

  # SET DMX_START_ADDRESS to 1 and check the result
  rdmscope build --dest 4a4d:00000001 --cc set --pid 0x00f0 --data 0001 --decode

  # A NACK response
  rdmscope build --cc get-response --response nack --pid 0x0060 --data 0000`,
	RunE: runBuild,
}

func buildRequest() (rdm.Request, error) {
	var req rdm.Request
	var err error
	if req.Destination, err = rdm.ParseUID(buildDest); err != nil {
		return req, fmt.Errorf("--dest: %w", err)
	}
	if req.Source, err = rdm.ParseUID(buildSrc); err != nil {
		return req, fmt.Errorf("--src: %w", err)
	}
	if req.CommandClass, err = rdm.ParseCommandClass(buildCC); err != nil {
		return req, fmt.Errorf("--cc: %w", err)
	}
	if req.ParameterID, err = rdm.ParsePID(buildPID); err != nil {
		return req, fmt.Errorf("--pid: %w", err)
	}
	if buildData != "" {
		if req.Data, err = rdm.ParseHex(buildData); err != nil {
			return req, fmt.Errorf("--data: %w", err)
		}
	}
	if req.CommandClass.IsResponse() {
		if req.Response, err = rdm.ParseResponseType(buildResponse); err != nil {
			return req, fmt.Errorf("--response: %w", err)
		}
	} else {
		req.Port = buildPort
	}

	switch {
	case buildTN < 0:
		req.Transaction = rdm.NextTransaction()
	case buildTN > 0xff:
		return req, fmt.Errorf("--tn: %d does not fit in a byte", buildTN)
	default:
		req.Transaction = uint8(buildTN)
	}
	req.MessageCount = buildCount
	req.SubDevice = buildSubDevice
	return req, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	req, err := buildRequest()
	if err != nil {
		return err
	}
	data, err := rdm.Build(req)
	if err != nil {
		return err
	}

	if buildRaw {
		_, err = os.Stdout.Write(data)
		return err
	}
	fmt.Println(hex.EncodeToString(data))

	if !buildDecode {
		return nil
	}
	a, err := setup()
	if err != nil {
		return err
	}
	r, err := a.renderer(cmd)
	if err != nil {
		return err
	}
	res, decodeErr := a.decoder.Decode(rdm.NewMessage(data))
	return r.Render(os.Stdout, res, decodeErr)
}

// PIDs command
var pidsVendor bool

var pidsCmd = &cobra.Command{
	Use:   "pids",
	Short: "List the parameters the decoder knows",
	Long: `List the parameter IDs with a decoding layout and the command classes
each one decodes for.

With --vendor, list the manufacturer specific overlays instead, including
those defined in the config file.`,
	Example: `  rdmscope pids
  rdmscope pids --vendor
  rdmscope pids --format json`,
	RunE: runPIDs,
}

type pidInfo struct {
	PID            uint16   `json:"pid"`
	Name           string   `json:"name"`
	Manufacturer   string   `json:"manufacturer,omitempty"`
	CommandClasses []string `json:"command_classes"`
}

func describe(d *rdm.Descriptor, manufacturer string) pidInfo {
	info := pidInfo{PID: d.PID, Name: d.Name, Manufacturer: manufacturer}
	for _, cc := range d.CommandClasses() {
		info.CommandClasses = append(info.CommandClasses, cc.String())
	}
	return info
}

func runPIDs(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	var infos []pidInfo
	if pidsVendor {
		for _, o := range a.resolver.Overlays() {
			label := fmt.Sprintf("%s (0x%04x)", o.Name, o.Manufacturer)
			for _, d := range o.Table.Descriptors() {
				infos = append(infos, describe(d, label))
			}
		}
	} else {
		for _, d := range rdm.StandardTable().Descriptors() {
			infos = append(infos, describe(d, ""))
		}
	}

	switch a.outputFormat() {
	case render.FormatJSON:
		enc := json.NewEncoder(os.Stdout)
		if indentJSON {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(infos)
	case render.FormatText:
	default:
		return fmt.Errorf("pids does not support format %q", a.outputFormat())
	}

	headers := []string{"PID", "NAME", "COMMAND CLASSES"}
	if pidsVendor {
		headers = append([]string{"MANUFACTURER"}, headers...)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.MutedColor)).
		Headers(headers...)
	for _, info := range infos {
		row := []string{fmt.Sprintf("0x%04x", info.PID), info.Name, strings.Join(info.CommandClasses, ", ")}
		if pidsVendor {
			row = append([]string{info.Manufacturer}, row...)
		}
		t.Row(row...)
	}
	fmt.Println(t.Render())
	fmt.Printf("%d parameter(s)\n", len(infos))
	return nil
}

// View command
var viewCapture string

var viewCmd = &cobra.Command{
	Use:   "view [hex...]",
	Short: "Browse decoded messages interactively",
	Long: `Open an interactive viewer over one or more decoded messages.

Messages come from hex arguments, a capture file given with --capture, or hex
lines on stdin. Use n/p to move between messages, e to toggle the envelope,
x to toggle the hex dump and ? for help.`,
	Example: `  rdmscope view 01184a4d000000017a700000000100010000002000600002e9
  rdmscope view --capture bench.jsonl`,
	RunE: runView,
}

func runView(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}

	var entries []ui.Entry
	if viewCapture != "" {
		records, err := capture.ReadFile(viewCapture)
		if err != nil {
			return err
		}
		for _, rec := range records {
			res, decodeErr := a.decoder.Decode(rec.Message())
			entries = append(entries, ui.Entry{
				Label:  fmt.Sprintf("#%d %s", rec.Seq, rec.Source),
				Raw:    rec.Data,
				Result: res,
				Err:    decodeErr,
			})
		}
	} else {
		msgs, err := readMessages(args, "", 0)
		if err != nil {
			return err
		}
		for i, msg := range msgs {
			res, decodeErr := a.decoder.Decode(msg)
			entries = append(entries, ui.Entry{
				Label:  fmt.Sprintf("message %d", i+1),
				Raw:    msg.Data,
				Result: res,
				Err:    decodeErr,
			})
		}
	}
	return ui.RunViewer(entries, a.renderOptions(cmd))
}

// Nick command
var nickClear bool

var nickCmd = &cobra.Command{
	Use:   "nick <uid> [nickname]",
	Short: "Show or set a device nickname",
	Long: `Show or set the nickname shown next to a UID in decoded output.

Nicknames are stored in the devices section of the config file.`,
	Example: `  rdmscope nick 4a4d:00000001 "Stage left wash"
  rdmscope nick 4a4d:00000001
  rdmscope nick 4a4d:00000001 --clear`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runNick,
}

func runNick(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	uid, err := rdm.ParseUID(args[0])
	if err != nil {
		return err
	}

	if len(args) == 1 && !nickClear {
		d := a.registry.GetDevice(uid)
		if d == nil || d.Nickname == "" {
			return fmt.Errorf("no nickname for %s", uid)
		}
		fmt.Println(d.Nickname)
		return nil
	}

	nickname := ""
	if !nickClear {
		nickname = args[1]
	}
	a.registry.SetDeviceNickname(uid, nickname)
	save := a.registry.Save
	if configPath != "" {
		save = func() error { return a.registry.SaveTo(a.registryPath) }
	}
	if err := save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if nickname == "" {
		fmt.Printf("Cleared nickname for %s\n", uid)
	} else {
		fmt.Printf("%s is now %q\n", uid, nickname)
	}
	return nil
}

