package bolt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/graphwire/bolt/encoding"
	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/stream"
)

var endMessage = []byte{0x00, 0x00}

// Recorder is a stream layer that records the byte exchange of a
// connection, or plays a recording back in place of one. Recording mode
// wraps a live stream and logs every read and write; playback mode
// (inner == nil) serves the recorded events and fails loudly on any
// divergence from the recorded exchange. Recordings serialize to JSON
// under recordings/.
type Recorder struct {
	inner stream.Stream

	name         string
	events       []*Event
	currentEvent int
}

// NewRecorder wraps a live stream, recording the exchange under the
// given name. The recording is written on Close when RECORD_OUTPUT is
// set in the environment.
func NewRecorder(name string, inner stream.Stream) *Recorder {
	return &Recorder{name: name, inner: inner}
}

// NewPlayback loads a recording and serves it as the remote end.
func NewPlayback(name string) (*Recorder, error) {
	r := &Recorder{name: name}
	if err := r.load(); err != nil {
		return nil, errors.Wrap(err, "Couldn't load recording %s", name)
	}
	return r, nil
}

func (r *Recorder) lastEvent() *Event {
	if len(r.events) > 0 {
		return r.events[len(r.events)-1]
	}
	return nil
}

// Read reads from the live stream, recording the interaction, or serves
// the next recorded read.
func (r *Recorder) Read(p []byte) (n int, err error) {
	if r.inner != nil {
		n, err = r.inner.Read(p)
		r.record(p[:n], false)
		r.recordErr(err, false)
		return n, err
	}

	if r.currentEvent >= len(r.events) {
		return 0, errors.New("Trying to read past all of the events in the recording %s", r.name)
	}
	event := r.events[r.currentEvent]
	if event.IsWrite {
		return 0, errors.New("Recording %s expected a write, got a read", r.name)
	}
	if len(event.Event) == 0 && event.ErrorMsg != "" {
		r.currentEvent++
		return 0, errors.New("%s", event.ErrorMsg)
	}

	n = copy(p, event.Event)
	event.Event = event.Event[n:]
	// An event carrying an error serves its bytes first; the error is
	// replayed by the next call.
	if len(event.Event) == 0 && event.ErrorMsg == "" {
		r.currentEvent++
	}
	return n, nil
}

// Write writes to the live stream, recording the interaction, or checks
// the bytes against the next recorded write.
func (r *Recorder) Write(p []byte) (n int, err error) {
	if r.inner != nil {
		n, err = r.inner.Write(p)
		r.record(p[:n], true)
		r.recordErr(err, true)
		return n, err
	}

	if r.currentEvent >= len(r.events) {
		return 0, errors.New("Trying to write past all of the events in the recording %s", r.name)
	}
	event := r.events[r.currentEvent]
	if !event.IsWrite {
		return 0, errors.New("Recording %s expected a read, got a write", r.name)
	}
	if len(event.Event) == 0 && event.ErrorMsg != "" {
		r.currentEvent++
		return 0, errors.New("%s", event.ErrorMsg)
	}

	if len(p) > len(event.Event) {
		return 0, errors.New("Attempted to write past the current event in recording %s", r.name)
	}
	if !bytes.Equal(p, event.Event[:len(p)]) {
		return 0, errors.New("Write diverges from recording %s at event %d", r.name, r.currentEvent)
	}
	event.Event = event.Event[len(p):]
	if len(event.Event) == 0 && event.ErrorMsg == "" {
		r.currentEvent++
	}
	return len(p), nil
}

// WriteBuffers writes each buffer in order through Write so playback
// checking sees the same byte sequence a live stream would.
func (r *Recorder) WriteBuffers(bufs net.Buffers) (int64, error) {
	var total int64
	for _, b := range bufs {
		n, err := r.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Flush flushes the live stream; playback has nothing to flush.
func (r *Recorder) Flush() error {
	if r.inner != nil {
		return r.inner.Flush()
	}
	return nil
}

// Close closes the live stream, writing out the recording first, or
// verifies the playback consumed every recorded event.
func (r *Recorder) Close() error {
	if r.inner != nil {
		if err := r.flush(); err != nil {
			return err
		}
		return r.inner.Close()
	}
	if len(r.events) > 0 {
		if r.currentEvent != len(r.events) {
			return errors.New("Didn't replay all of the events in recording %s: %d of %d",
				r.name, r.currentEvent, len(r.events))
		}
		if len(r.events[len(r.events)-1].Event) != 0 {
			return errors.New("Left data in the final event of recording %s", r.name)
		}
	}
	return nil
}

func (r *Recorder) record(data []byte, isWrite bool) {
	if len(data) == 0 {
		return
	}
	event := r.lastEvent()
	if event == nil || event.Completed || event.IsWrite != isWrite {
		event = newEvent(isWrite)
		r.events = append(r.events, event)
	}
	event.Event = append(event.Event, data...)
	event.Completed = bytes.HasSuffix(data, endMessage)
}

func (r *Recorder) recordErr(err error, isWrite bool) {
	if err == nil {
		return
	}
	event := r.lastEvent()
	if event == nil || event.Completed || event.IsWrite != isWrite {
		event = newEvent(isWrite)
		r.events = append(r.events, event)
	}
	event.ErrorMsg = err.Error()
	event.Completed = true
}

func (r *Recorder) load() error {
	path := filepath.Join("recordings", r.name+".json")
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewDecoder(file).Decode(&r.events)
}

func (r *Recorder) writeRecording() error {
	if err := os.MkdirAll("recordings", 0770); err != nil {
		return err
	}
	path := filepath.Join("recordings", r.name+".json")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0660)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(r.events)
}

func (r *Recorder) flush() error {
	if os.Getenv("RECORD_OUTPUT") != "" {
		return r.writeRecording()
	}
	return nil
}

// Print dumps the recording for debugging: each event decoded where
// possible, plus a hex dump of the raw bytes.
func (r *Recorder) Print() {
	fmt.Println("PRINTING RECORDING " + r.name)

	for _, event := range r.events {
		fmt.Println()

		direction := "READ"
		if event.IsWrite {
			direction = "WRITE"
		}
		fmt.Printf("%s @ %d:\n\n", direction, event.Timestamp)

		decoded, err := encoding.NewDecoder(bytes.NewBuffer(stripChunks(event.Event))).Decode()
		if err != nil {
			fmt.Printf("Error decoding data: %s\n", err)
		} else {
			fmt.Printf("Decoded Data:\n\n%+v\n\n", decoded)
		}

		fmt.Print("Encoded Bytes:\n\n")
		fmt.Print(stream.SprintByteHex(event.Event))
		if !event.Completed {
			fmt.Println("EVENT NEVER COMPLETED")
		}
		if event.ErrorMsg != "" {
			fmt.Printf("ERROR OCCURRED DURING EVENT: %s\n", event.ErrorMsg)
		}
		fmt.Println()
	}

	fmt.Println("RECORDING END " + r.name)
}

// stripChunks removes the chunk headers and end marker from one recorded
// message so the payload can be decoded directly.
func stripChunks(data []byte) []byte {
	var payload []byte
	for len(data) >= 2 {
		size := int(data[0])<<8 | int(data[1])
		data = data[2:]
		if size == 0 || size > len(data) {
			break
		}
		payload = append(payload, data[:size]...)
		data = data[size:]
	}
	return payload
}

// Event is a single read or write exchange in a recording.
type Event struct {
	Timestamp int64 `json:"-"`
	Event     []byte
	IsWrite   bool
	Completed bool
	ErrorMsg  string `json:",omitempty"`
}

func newEvent(isWrite bool) *Event {
	return &Event{
		Timestamp: time.Now().UnixNano(),
		IsWrite:   isWrite,
	}
}
