package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-flow/pkg/stream/measure"
)

// SVGDrawer is a drawer that creates a SVG file with the stream graph.
type SVGDrawer struct {
	graph       graph.Graph[string, string]
	stages      map[string]struct{}
	svgFileName string
}

// NewSVGDrawer creates a new SVG drawer.
func NewSVGDrawer(svgFileName string) *SVGDrawer {
	return &SVGDrawer{
		svgFileName: svgFileName,
		graph:       graph.New(graph.StringHash, graph.Directed()),
		stages:      make(map[string]struct{}),
	}
}

// AddStage adds a stage to the stream graph.
func (d *SVGDrawer) AddStage(stageID, name string) error {
	err := d.graph.AddVertex(stageID, graph.VertexAttribute("label", name))
	if err != nil {
		return errors.Wrapf(err, "unable to add vertex %s", name)
	}

	d.stages[stageID] = struct{}{}

	return nil
}

// AddLink adds a link between a parent stage and its child.
func (d *SVGDrawer) AddLink(parentID, childID string) error {
	err := d.graph.AddEdge(parentID, childID)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentID, childID)
	}

	return nil
}

// Draw creates a SVG file with the stream graph.
func (d *SVGDrawer) Draw() error {
	file, err := os.Create(d.svgFileName)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", d.svgFileName)
	}
	defer file.Close()

	err = dot(d.graph, file)
	if err != nil {
		return errors.Wrapf(err, "unable to create dot file %s", d.svgFileName)
	}

	return nil
}

// SetTotalTime sets the total evaluation time on the stage.
func (d *SVGDrawer) SetTotalTime(stageID string, total time.Duration) error {
	_, properties, err := d.graph.VertexWithProperties(stageID)
	if err != nil {
		return errors.Wrap(err, "unable to get vertex properties")
	}

	properties.Attributes["xlabel"] = total.String()

	return nil
}

const maxRGB = 240

// AddMeasure colours every stage by its average computation time, from
// blue (fastest) to red (slowest), and labels it with the average.
func (d *SVGDrawer) AddMeasure(msr measure.Measure) error {
	allElapsed := make(map[time.Duration]string)
	sortedAllElapsed := []time.Duration{}

	for _, mt := range msr.AllMetrics() {
		avg := mt.AVGDuration()
		if avg == 0 {
			continue
		}

		if _, ok := allElapsed[avg]; ok {
			continue
		}

		allElapsed[avg] = ""

		sortedAllElapsed = append(sortedAllElapsed, avg)
	}

	if len(sortedAllElapsed) == 0 {
		return nil
	}

	sort.Slice(sortedAllElapsed, func(i, j int) bool {
		return sortedAllElapsed[i] > sortedAllElapsed[j]
	})

	maxValue := sortedAllElapsed[0]
	minValue := sortedAllElapsed[len(sortedAllElapsed)-1]

	for curr := range allElapsed {
		fraction := time.Duration(1)
		if maxValue > minValue {
			fraction = (curr - minValue) / (maxValue - minValue)
		}

		red := maxRGB * fraction
		blue := -maxRGB*fraction + maxRGB

		heatColor, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		allElapsed[curr] = heatColor.ToHEX().String()
	}

	err := d.updateMetrics(msr, allElapsed)
	if err != nil {
		return errors.Wrap(err, "unable to update metrics")
	}

	return nil
}

func (d *SVGDrawer) updateMetrics(msr measure.Measure, allElapsed map[time.Duration]string) error {
	for stageID, mt := range msr.AllMetrics() {
		if _, ok := d.stages[stageID]; !ok {
			continue
		}

		_, properties, err := d.graph.VertexWithProperties(stageID)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}

		stageAvg := mt.AVGDuration()
		if stageAvg != 0 {
			properties.Attributes["xlabel"] = stageAvg.String()
			properties.Attributes["color"] = allElapsed[stageAvg]
		}

		if mt.GetTotalDuration() > 0 {
			properties.Attributes["xlabel"] += ", end: " + mt.GetTotalDuration().String()
		}
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
	{{range $k, $v := .Attributes}}
		{{$k}}="{{$v}}";
	{{end}}
	{{range $s := .Statements}}
		"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}} {{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}} weight={{.SourceWeight}} ]{{end}};
	{{end}}
	}
	`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           interface{}
	Target           interface{}
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot[K comparable, T any](g graph.Graph[K, T], wrt io.Writer, options ...func(*description)) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return fmt.Errorf("failed to generate DOT description: %w", err)
	}

	return renderDOT(wrt, desc)
}

// GraphAttribute is a functional option for the [DOT] method.
func GraphAttribute(key, value string) func(*description) {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func generateDOT[K comparable, T any](gra graph.Graph[K, T], options ...func(*description)) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for vertex, adjacencies := range adjacencyMap {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		htmlAttributes := make(map[string]string)

		display := any(vertex)
		if label, ok := sourceProperties.Attributes["label"]; ok {
			display = label
		}

		if xlabel, ok := sourceProperties.Attributes["xlabel"]; ok {
			htmlAttributes["label"] = fmt.Sprintf(`<%+v <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, display, xlabel)

			delete(sourceProperties.Attributes, "xlabel")
			delete(sourceProperties.Attributes, "label")
		}

		stmt := statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: sourceProperties.Attributes,
			HTMLAttributes:   htmlAttributes,
		}
		desc.Statements = append(desc.Statements, stmt)

		for adjacency, edge := range adjacencies {
			stmt := statement{
				Source:         vertex,
				Target:         adjacency,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			}
			desc.Statements = append(desc.Statements, stmt)
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*SVGDrawer)(nil)
