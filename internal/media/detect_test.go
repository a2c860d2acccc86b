package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExtIsCaseInsensitive(t *testing.T) {
	for _, ext := range []string{".mp3", ".MP3", ".Flac", ".ogg", ".WAV"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
}

func TestIsSupportedExtRejectsUndecodableFormats(t *testing.T) {
	for _, ext := range []string{".m4a", ".aac", ".txt", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %q to be rejected", ext)
		}
	}
}

func TestSupportedExtsListMatchesSet(t *testing.T) {
	list := SupportedExtsList()
	for ext := range audioExts {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestIsAudioFileUsesExtension(t *testing.T) {
	if !IsAudioFile("/music/a/Song.FLAC") {
		t.Fatal("expected flac path to be an audio file")
	}
	if IsAudioFile("/music/a/cover.jpg") {
		t.Fatal("expected jpg path to be rejected")
	}
}
