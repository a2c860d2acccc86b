package playback

// Detector turns periodic IsBusy samples into a single end-of-track signal.
// It fires on a busy to idle edge only after the current generation has been
// seen busy at least once, so load latency right after a play is not mistaken
// for a finished track.
type Detector struct {
	generation uint64
	lastBusy   bool
}

// Observe records a sample taken for the given play generation and reports
// whether the track just finished.
func (d *Detector) Observe(generation uint64, busy bool) bool {
	if generation != d.generation {
		d.generation = generation
		d.lastBusy = false
	}
	ended := d.lastBusy && !busy
	d.lastBusy = busy
	return ended
}
