package web

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"io/ioutil"
	"strings"
	"time"

	"github.com/icza/gox/timex"
	"github.com/wansing/chronik/core"
	"github.com/wansing/chronik/util"
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser *markdown.Markdown = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

func renderMarkdown(input string) template.HTML {

	// remove all tabs from the beginning of each line, textareas like to add them

	var unindented = &bytes.Buffer{}

	lineScanner := bufio.NewScanner(strings.NewReader(input))
	for lineScanner.Scan() {
		line := lineScanner.Text()
		for len(line) > 0 && line[0] == '\t' {
			line = line[1:]
		}
		unindented.WriteString(line)
		unindented.WriteString("\n")
	}

	return template.HTML(markdownParser.RenderToString(unindented.Bytes()))
}

// teaser renders the post text as markdown, truncates it at the more marker
// and turns the leading heading into a link to the post.
func teaser(p core.DBPost) (template.HTML, bool, error) {

	body, cut := util.CutMore(string(renderMarkdown(p.Text())))

	bodyBytes, err := ioutil.ReadAll(
		util.AnchorHeading(
			strings.NewReader(body),
			fmt.Sprintf(`<a href="posts/%d">`, p.ID()),
		),
	)
	if err != nil {
		return "", false, err
	}

	return template.HTML(bodyBytes), cut, nil
}

func FormatTs(ts int64) string {
	// ignores the user timezone
	return time.Unix(ts, 0).Format("_2.1.2006 15:04")
}

// Age says how long ago ts was, in the largest non-zero unit.
func Age(ts int64) string {

	year, month, day, hour, min, _ := timex.Diff(time.Now(), time.Unix(ts, 0))

	switch {
	case year > 0:
		return plural(year, "year")
	case month > 0:
		return plural(month, "month")
	case day > 0:
		return plural(day, "day")
	case hour > 0:
		return plural(hour, "hour")
	case min > 0:
		return plural(min, "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
