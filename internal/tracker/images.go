package tracker

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/gabriel-vasile/mimetype"
)

// Images selects progress images from a directory of progress-<n>.png files
type Images struct {
	Dir string
}

// NewImages creates an Images rooted at dir
func NewImages(dir string) *Images {
	return &Images{Dir: dir}
}

// Attachment returns the image for a percentage, or nil when there is none.
// Each call returns a fresh reader.
func (im *Images) Attachment(percent int) *discordgo.File {
	if im == nil || im.Dir == "" {
		return nil
	}

	name := ProgressImageName(percent)
	data, err := os.ReadFile(filepath.Join(im.Dir, name))
	if err != nil {
		return nil
	}

	return &discordgo.File{
		Name:        name,
		ContentType: mimetype.Detect(data).String(),
		Reader:      bytes.NewReader(data),
	}
}
