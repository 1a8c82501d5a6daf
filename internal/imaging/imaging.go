// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging reads pixel dimensions from encoded image bytes without
// decoding the full image. Raster formats are read from their headers;
// SVG dimensions come from the root element's width and height attributes.
package imaging

import (
	"bytes"
	"encoding/xml"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// maxDimension is the largest width or height the media_files columns hold.
const maxDimension = math.MaxInt32

// Dimensions returns the width and height of the encoded image in data.
// ok is false when the format is not recognised, the header is corrupt or a
// side exceeds maxDimension.
func Dimensions(data []byte, mimeType string) (width, height int, ok bool) {
	if mimeType == "image/svg+xml" {
		return svgDimensions(data)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || !inRange(float64(cfg.Width)) || !inRange(float64(cfg.Height)) {
		return 0, 0, false
	}
	return cfg.Width, cfg.Height, true
}

// svgDimensions reads width/height from the <svg> element, falling back
// to the viewBox when either is missing or relative.
func svgDimensions(data []byte) (int, int, bool) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, 0, false
		}
		el, isStart := tok.(xml.StartElement)
		if !isStart {
			continue
		}
		if el.Name.Local != "svg" {
			return 0, 0, false
		}

		var w, h int
		var viewBox string
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "width":
				w = svgLength(a.Value)
			case "height":
				h = svgLength(a.Value)
			case "viewBox":
				viewBox = a.Value
			}
		}
		if w > 0 && h > 0 {
			return w, h, true
		}

		parts := strings.Fields(strings.ReplaceAll(viewBox, ",", " "))
		if len(parts) == 4 {
			vw, err1 := strconv.ParseFloat(parts[2], 64)
			vh, err2 := strconv.ParseFloat(parts[3], 64)
			if err1 == nil && err2 == nil && inRange(vw) && inRange(vh) {
				return int(vw + 0.5), int(vh + 0.5), true
			}
		}
		return 0, 0, false
	}
}

// svgLength parses an absolute SVG length ("120", "120px"). Percentages and
// other units yield 0.
func svgLength(s string) int {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !inRange(f) {
		return 0
	}
	return int(f + 0.5)
}

func inRange(f float64) bool {
	return f > 0 && f+0.5 < maxDimension+1
}
