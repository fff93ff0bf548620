// Command generator prints the sine test waveform as decimal lines, paced at
// the rate it was tuned for. Pipe it into vmatrix -b stdin -d stdin-lines.
package main

import (
	"bufio"
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/integrii/flaggy"
	"github.com/noriah/vmatrix/input/sine"
)

func main() {
	log.SetFlags(0)

	rate := sine.GeneratorRate
	count := 0

	parser := flaggy.NewParser("generator")
	parser.Description = "print the vmatrix test waveform, one sample per line"
	parser.Float64(&rate, "r", "rate", "samples per second (0 prints as fast as possible)")
	parser.Int(&count, "n", "count", "stop after this many samples (0 runs until interrupted)")
	chk(parser.Parse(), "failed to parse arguments")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var tick <-chan time.Time
	if rate > 0 {
		ticker := time.NewTicker(time.Duration(float64(time.Second) / rate))
		defer ticker.Stop()
		tick = ticker.C
	}

	line := make([]byte, 0, 8)

	for x := int64(0); count == 0 || x < int64(count); x++ {
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return
		}

		line = strconv.AppendInt(line[:0], int64(sine.Generate(x)), 10)
		line = append(line, '\n')

		if _, err := out.Write(line); err != nil {
			return
		}

		// keep a reader on the other end of a pipe in step with the clock
		if tick != nil {
			chk(out.Flush(), "failed to write")
		}
	}
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalln(wrap+": ", err)
	}
}
