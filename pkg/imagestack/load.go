package imagestack

import (
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/tiff"

	"github.com/abworrall/hdr-crf/pkg/calibrate"
	"github.com/abworrall/hdr-crf/pkg/exposure"
)

func (s *Stack)LoadFilesAndDirs(args ...string) (error) {
	for _, arg := range args {
		item, err := os.Stat(arg)

		switch {

		case err != nil:
			return fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			// Is a dir, recurse into contents
			contents, err := ioutil.ReadDir(arg)
			if err != nil {
				return fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				if err := s.LoadFilesAndDirs(filepath.Join(arg, content.Name())); err != nil {
					return fmt.Errorf("load %s: %w", arg, err)
				}
			}

		default: // is a file, load it
			if err := s.loadFile(arg); err != nil {
				return fmt.Errorf("loadfile %s: %w", arg, err)
			}
		}
	}

	return nil
}

type decodeFunc func(io.Reader) (image.Image, error)

func (s *Stack)loadFile(filename string) error {
	ext := filepath.Ext(filename)

	switch strings.ToLower(ext) {

	case ".tif", ".tiff":
		layer, err := loadLayer(filename, tiff.Decode)
		if err != nil {
			return fmt.Errorf("Loading %s as TIFF failed: %w", filename, err)
		}
		s.AddLayer(layer)

	case ".jpg", ".jpeg":
		layer, err := loadLayer(filename, jpeg.Decode)
		if err != nil {
			return fmt.Errorf("Loading %s as JPEG failed: %w", filename, err)
		}
		s.AddLayer(layer)

	case ".yaml":
		cfg, err := calibrate.LoadConfig(filename)
		if err != nil {
			return fmt.Errorf("Loading %s as config YAML failed: %w", filename, err)
		}
		s.Config = cfg
		log.Printf("Loaded base configuration from %s\n", filename)
	}

	return nil
}

func loadLayer(filename string, decode decodeFunc) (Layer, error) {
	l := Layer{LoadFilename: filename}

	// First, try to load the EXIF metadata.
	if reader, err := os.Open(filename); err != nil {
		return l, fmt.Errorf("open+r exif '%s': %v", filename, err)

	} else {
		defer reader.Close()
		ev, err := ReadExposure(reader)
		if err != nil {
			return l, fmt.Errorf("image '%s': %w", filename, err)
		}
		l.ExposureValue = ev
	}

	// Re-open the file, now for the image data
	if reader, err := os.Open(filename); err != nil {
		return l, fmt.Errorf("open+r img '%s': %v", filename, err)
	} else {
		defer reader.Close()
		if img, err := decode(reader); err != nil {
			return l, fmt.Errorf("decoding '%s': %v", filename, err)
		} else {
			l.Image = img
		}
	}

	return l, nil
}

// ReadExposure pulls the aperture, shutter speed and ISO out of the
// EXIF data. We ignore Exposure Compensation, as it is informational;
// the Fstop/Speed/ISO triple fully defines how much light exposed a pixel.
func ReadExposure(r io.Reader) (exposure.ExposureValue, error) {
	ev := exposure.ExposureValue{}

	ex, err := exif.Decode(r)
	if err != nil {
		return ev, fmt.Errorf("exif parsing: %v", err)
	}

	if tag,err := ex.Get(exif.ISOSpeedRatings); err != nil {
		return ev, fmt.Errorf("exif ISO: %v", err)
	} else if val,err := tag.Int(0); err != nil {
		return ev, fmt.Errorf("exif ISO: %v", err)
	} else {
		ev.ISO = val
	}

	if tag,err := ex.Get(exif.FNumber); err != nil {
		return ev, fmt.Errorf("exif FNumber: %v", err)
	} else if num,denom,err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif FNumber: %v", err)
	} else if f,err := exposure.FNumberFromRational(num, denom); err != nil {
		return ev, err
	} else {
		ev.FNumber = f
	}

	if tag,err := ex.Get(exif.ExposureTime); err != nil {
		return ev, fmt.Errorf("exif ExposureTime: %v", err)
	} else if num,denom,err := tag.Rat2(0); err != nil {
		return ev, fmt.Errorf("exif ExposureTime: %v", err)
	} else {
		ev.ExposureTime = exposure.Rat64{num, denom}
	}

	return ev, ev.Validate()
}
