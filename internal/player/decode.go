package player

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for payloads no decoder accepts.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

type codec int

const (
	codecUnknown codec = iota
	codecMP3
	codecFLAC
	codecVorbis
	codecWAV
)

func (c codec) String() string {
	switch c {
	case codecMP3:
		return "MP3"
	case codecFLAC:
		return "FLAC"
	case codecVorbis:
		return "OGG"
	case codecWAV:
		return "WAV"
	default:
		return "unknown"
	}
}

func codecForMIME(mimeType string) codec {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return codecMP3
	case "audio/flac", "audio/x-flac":
		return codecFLAC
	case "audio/ogg", "application/ogg", "audio/vorbis":
		return codecVorbis
	case "audio/wav", "audio/wave", "audio/x-wav", "audio/vnd.wave":
		return codecWAV
	default:
		return codecUnknown
	}
}

// sniffCodec inspects magic bytes when the MIME type is not conclusive.
func sniffCodec(r io.ReadSeeker) (codec, error) {
	head := make([]byte, 12)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return codecUnknown, err
	}
	head = head[:n]
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return codecUnknown, err
	}

	switch {
	case bytes.HasPrefix(head, []byte("fLaC")):
		return codecFLAC, nil
	case bytes.HasPrefix(head, []byte("OggS")):
		return codecVorbis, nil
	case bytes.HasPrefix(head, []byte("RIFF")) && len(head) >= 12 && string(head[8:12]) == "WAVE":
		return codecWAV, nil
	case bytes.HasPrefix(head, []byte("ID3")):
		// ID3 also prefixes some FLAC files; MP3 is by far the common case.
		return codecMP3, nil
	case len(head) >= 2 && head[0] == 0xff && head[1]&0xe0 == 0xe0:
		return codecMP3, nil
	default:
		return codecUnknown, nil
	}
}

// decodeFile opens path and returns a seekable decoded stream. The returned
// file must be closed by the caller after the streamer.
func decodeFile(path, mimeType string) (*os.File, beep.StreamSeekCloser, beep.Format, codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, codecUnknown, err
	}

	c := codecForMIME(mimeType)
	if c == codecUnknown {
		c, err = sniffCodec(f)
		if err != nil {
			f.Close()
			return nil, nil, beep.Format{}, codecUnknown, err
		}
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch c {
	case codecMP3:
		streamer, format, err = mp3.Decode(f)
	case codecFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		if err = skipID3v2(f); err == nil {
			streamer, format, err = flac.Decode(f)
		}
	case codecVorbis:
		streamer, format, err = vorbis.Decode(f)
	case codecWAV:
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
	if err != nil {
		f.Close()
		return nil, nil, beep.Format{}, c, err
	}
	return f, streamer, format, c, nil
}

// skipID3v2 skips an ID3v2 tag if present at the beginning of the file.
func skipID3v2(r io.ReadSeeker) error {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return err
	}
	if n < 10 || string(header[0:3]) != "ID3" {
		_, err = r.Seek(0, io.SeekStart)
		return err
	}

	// ID3v2 size is a syncsafe integer: 7 bits per byte
	size := int64(header[6])<<21 | int64(header[7])<<14 | int64(header[8])<<7 | int64(header[9])

	_, err = r.Seek(10+size, io.SeekStart)
	return err
}
