package player

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// pcmDecoder yields interleaved signed 16-bit little-endian PCM.
type pcmDecoder interface {
	io.Reader
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder from the file extension.
func newDecoder(f *os.File) (pcmDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("unsupported format: %s", ext)
	}
}

// blockReader serves PCM produced in blocks, keeping any remainder that did
// not fit the caller's buffer. The block error is returned once the block
// itself has been drained.
type blockReader struct {
	pending []byte
	err     error
	next    func() ([]byte, error)
}

func (r *blockReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		r.pending, r.err = r.next()
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}

func clamp16(s int) int16 {
	return int16(max(math.MinInt16, min(math.MaxInt16, s)))
}

// --- MP3 ---

// go-mp3 always decodes to 16-bit stereo.
type mp3Decoder struct {
	dec *mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{dec: dec}, nil
}

func (d *mp3Decoder) Read(p []byte) (int, error) { return d.dec.Read(p) }
func (d *mp3Decoder) SampleRate() int            { return d.dec.SampleRate() }
func (d *mp3Decoder) ChannelCount() int          { return 2 }

// --- WAV ---

type wavDecoder struct {
	blockReader
	sampleRate int
	channels   int
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	depth := int(dec.BitDepth)
	switch depth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth: %d", depth)
	}

	d := &wavDecoder{sampleRate: int(dec.SampleRate), channels: int(dec.NumChans)}
	width := depth / 8
	pcm := io.LimitReader(f, dec.PCMLen())
	src := make([]byte, 4096*width)
	d.next = func() ([]byte, error) {
		n, err := io.ReadFull(pcm, src)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		samples := n / width
		out := make([]byte, samples*2)
		for i := range samples {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(wavSample(src[i*width:], depth)))
		}
		return out, err
	}
	return d, nil
}

func wavSample(b []byte, depth int) int16 {
	switch depth {
	case 8:
		return int16((int(b[0]) - 128) << 8)
	case 16:
		return int16(binary.LittleEndian.Uint16(b))
	case 24:
		s := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if s&0x800000 != 0 {
			s |= ^0xFFFFFF
		}
		return int16(s >> 8)
	default:
		return int16(int32(binary.LittleEndian.Uint32(b)) >> 16)
	}
}

func (d *wavDecoder) SampleRate() int   { return d.sampleRate }
func (d *wavDecoder) ChannelCount() int { return d.channels }

// --- FLAC ---

type flacDecoder struct {
	blockReader
	sampleRate int
	channels   int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.New(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	d := &flacDecoder{sampleRate: int(info.SampleRate), channels: int(info.NChannels)}
	bps := int(info.BitsPerSample)
	d.next = func() ([]byte, error) {
		frame, err := stream.ParseNext()
		if err != nil {
			return nil, err
		}
		n := int(frame.Subframes[0].NSamples)
		out := make([]byte, n*d.channels*2)
		for i := range n {
			for ch := range d.channels {
				s := int(frame.Subframes[ch].Samples[i])
				if bps > 16 {
					s >>= bps - 16
				} else {
					s <<= 16 - bps
				}
				binary.LittleEndian.PutUint16(out[(i*d.channels+ch)*2:], uint16(clamp16(s)))
			}
		}
		return out, nil
	}
	return d, nil
}

func (d *flacDecoder) SampleRate() int   { return d.sampleRate }
func (d *flacDecoder) ChannelCount() int { return d.channels }

// --- OGG Vorbis ---

type oggDecoder struct {
	blockReader
	sampleRate int
	channels   int
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}
	d := &oggDecoder{sampleRate: reader.SampleRate(), channels: reader.Channels()}
	samples := make([]float32, 4096*d.channels)
	d.next = func() ([]byte, error) {
		n, err := reader.Read(samples)
		out := make([]byte, n*2)
		for i := range n {
			s := max(-1, min(1, samples[i]))
			binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*math.MaxInt16)))
		}
		return out, err
	}
	return d, nil
}

func (d *oggDecoder) SampleRate() int   { return d.sampleRate }
func (d *oggDecoder) ChannelCount() int { return d.channels }
