// loadmovie.go - Decodes just enough of the SWF header to hand Player a
// MovieHeader and an empty root timeline. Full tag-stream decoding is the
// external SWF parser collaborator's job; this file only checks the
// signature and reads the version byte so
// the host binary has something runnable without that collaborator
// wired in.
package main

import (
	"fmt"

	"flashcore/display"
	"flashcore/player"
	"flashcore/timeline"
)

// loadMovie checks the SWF signature, reads the version byte, and builds
// an empty, playable root clip; frame rate, frame count and stage size are
// fixed at 12 fps, one frame and 550x400 rather than read from the file. A real
// deployment replaces this with the SWF parser's tag-stream decode,
// which would also populate Clip.Frames with the authored placement/
// removal/DoAction tags per frame.
func loadMovie(data []byte) (player.MovieHeader, *timeline.Clip, error) {
	if len(data) < 8 {
 return player.MovieHeader{}, nil, fmt.Errorf("loadmovie: file too short")
	}
	sig := string(data[0:3])
	if sig != "FWS" && sig != "CWS" && sig != "ZWS" {
 return player.MovieHeader{}, nil, fmt.Errorf("loadmovie: not an SWF file (signature %q)", sig)
	}
	version := data[3]

	header := player.MovieHeader{
 FrameRate: 12,
 FrameCount: 1,
 Width: 550,
 Height: 400,
 SwfVersion: version,
	}

	root := display.NewNode(display.KindMovieClip)
	clip := timeline.NewClip(root, make([][]timeline.FrameTag, header.FrameCount), map[string]int{})
	return header, clip, nil
}
