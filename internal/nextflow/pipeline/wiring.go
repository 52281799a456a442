package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/flowcraft/flowgen/hook"
	"github.com/flowcraft/flowgen/internal/nextflow/process"
	"github.com/flowcraft/flowgen/internal/shellscript"
	"github.com/flowcraft/flowgen/version"
)

// rawOrder fixes the emission order of raw input channels.
var rawOrder = []process.DataType{process.Fastq, process.Assembly}

type sideFork struct {
	link  string
	sinks []string
}

// wiring connects the processes of one pipeline: main channels between
// neighbours, raw input forks, and secondary channels between link
// starts and link ends.
type wiring struct {
	b     *Builder
	procs []*process.Process

	rawForks      map[process.DataType][]string
	sideForks     map[*process.Process][]sideFork
	unresolved    []string
	linkProducers map[string]*process.Process
	lastByType    map[process.DataType]*process.Process
}

func newWiring(b *Builder, procs []*process.Process) *wiring {
	return &wiring{
		b:             b,
		procs:         procs,
		rawForks:      map[process.DataType][]string{},
		sideForks:     map[*process.Process][]sideFork{},
		linkProducers: map[string]*process.Process{},
		lastByType:    map[process.DataType]*process.Process{},
	}
}

func (w *wiring) connect() error {
	var prevMain *process.Process

	for _, p := range w.procs {
		if isSideTap(p) {
			for i, le := range p.LinkEnd {
				sink := fmt.Sprintf("%s_%d", le.Alias, p.PID)
				if i == 0 {
					p.InputChannel = sink
				}
				w.route(p, le.Link, sink)
			}
			continue
		}

		if prevMain == nil {
			if _, ok := process.RawInputFor(p.InputType); !ok {
				return fmt.Errorf("pipeline cannot start with process %q: no raw input for type %q",
					p.Template, p.InputType)
			}
			w.rawForks[p.InputType] = append(w.rawForks[p.InputType], p.InputChannel)
		} else {
			prevMain.UpdateMainForks(p.InputChannel)
		}

		for _, le := range p.LinkEnd {
			w.route(p, le.Link, fmt.Sprintf("%s_%d", le.Alias, p.PID))
		}

		prevMain = p
		if p.OutputType != process.None {
			w.lastByType[p.OutputType] = p
		}

		for _, ls := range p.LinkStart {
			w.linkProducers[ls] = p
		}
	}

	return nil
}

// route connects one link end sink to its producer. Main-flow links
// fall back to the raw input channels when no producer has run yet;
// unmatched secondary links degrade to a 'None' value channel.
func (w *wiring) route(p *process.Process, link, sink string) {
	switch link {
	case linkMainRaw:
		w.rawForks[p.InputType] = append(w.rawForks[p.InputType], sink)

	case linkMainFastq:
		w.routeMain(process.Fastq, sink)

	case linkMainAssembly:
		w.routeMain(process.Assembly, sink)

	default:
		prod, ok := w.linkProducers[link]
		if !ok {
			w.b.log.Warn("No process provides secondary channel %q for %q, using a 'None' value channel", link, p.Template)
			w.unresolved = append(w.unresolved, sink)
			return
		}
		w.addSideFork(prod, link, sink)
	}
}

func (w *wiring) routeMain(t process.DataType, sink string) {
	if prod := w.lastByType[t]; prod != nil {
		prod.UpdateMainForks(sink)
		return
	}
	w.rawForks[t] = append(w.rawForks[t], sink)
}

func (w *wiring) addSideFork(prod *process.Process, link, sink string) {
	forks := w.sideForks[prod]
	for i := range forks {
		if forks[i].link == link {
			forks[i].sinks = append(forks[i].sinks, sink)
			return
		}
	}
	w.sideForks[prod] = append(forks, sideFork{link: link, sinks: []string{sink}})
}

// render sets up every process's channels and hook lines, then
// assembles the full document.
func (w *wiring) render() (*Document, error) {
	var statusStrs []string
	maxPID := 0

	for _, p := range w.procs {
		hooks, err := w.hookLines(p.PID, p.Template)
		if err != nil {
			return nil, fmt.Errorf("rendering hooks for process %q: %w", p.Template, err)
		}

		p.SetChannels(p.PID, map[string]any{"Hooks": hooks})
		statusStrs = append(statusStrs, p.StatusStrings()...)

		if p.PID > maxPID {
			maxPID = p.PID
		}
	}

	for _, p := range w.procs {
		for _, f := range w.sideForks[p] {
			p.SetSecondaryChannel(f.link, f.sinks)
		}
	}

	rendered := make([]string, 0, len(w.procs)+3)
	procs := make([]*process.Process, 0, len(w.procs)+2)

	init, paramNames, err := w.renderInit()
	if err != nil {
		return nil, err
	}
	rendered = append(rendered, init)

	for _, p := range w.procs {
		s, err := p.TemplateString()
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, s)
		procs = append(procs, p)
	}

	if len(statusStrs) > 0 {
		sc := process.NewStatusCompiler(w.b.log)
		s, err := w.renderCompiler(sc, maxPID+1, map[string]any{
			"StatusChannels": process.MixChannels(statusStrs),
		})
		if err != nil {
			return nil, err
		}
		rendered = append(rendered, s)
		procs = append(procs, sc)
		maxPID++
	}

	tc := process.NewTraceCompiler(w.b.log)
	s, err := w.renderCompiler(tc, maxPID+1, nil)
	if err != nil {
		return nil, err
	}
	rendered = append(rendered, s)
	procs = append(procs, tc)

	doc := &Document{
		Definition: w.definition(),
		Processes:  procs,
		Params:     paramNames,
		Contents:   strings.Join(rendered, "\n") + "\n",
	}
	return doc, nil
}

func (w *wiring) renderCompiler(p *process.Process, pid int, extra map[string]any) (string, error) {
	hooks, err := w.hookLines(pid, p.Template)
	if err != nil {
		return "", fmt.Errorf("rendering hooks for process %q: %w", p.Template, err)
	}

	suffix := strconv.Itoa(pid)
	p.SetMainChannelNames(suffix, suffix, 1)
	p.PID = pid

	context := map[string]any{"Hooks": hooks}
	for k, v := range extra {
		context[k] = v
	}
	p.SetChannels(pid, context)

	return p.TemplateString()
}

// hookLines renders the lifecycle hook directives for one process
// block, appending any user-supplied extra commands.
func (w *wiring) hookLines(pid int, templateName string) (string, error) {
	var renderOpts []hook.RenderOpt
	if w.b.overwrite != "" {
		renderOpts = append(renderOpts, hook.WithOverwrite(w.b.overwrite))
	}

	pair, err := w.b.renderer.Render(w.b.env, strconv.Itoa(pid), templateName, renderOpts...)
	if err != nil {
		return "", err
	}

	before := shellscript.Join(append([]string{pair.Before}, w.b.extraBefore...)...)
	after := shellscript.Join(append([]string{pair.After}, w.b.extraAfter...)...)

	lines := []string{fmt.Sprintf("    beforeScript \"%s\"", escapeQuotes(before))}
	if after != "" {
		lines = append(lines, fmt.Sprintf("    afterScript \"%s\"", escapeQuotes(after)))
	}

	return strings.Join(lines, "\n"), nil
}

// escapeQuotes escapes double quotes inside a hook command so it can be
// embedded in a double-quoted Nextflow directive.
func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// renderInit renders the pipeline header block and returns it together
// with the sorted parameter names the pipeline expects.
func (w *wiring) renderInit() (string, []string, error) {
	var mainInputs []string
	var forks []string
	paramSet := map[string]struct{}{}

	for _, t := range rawOrder {
		sinks := w.rawForks[t]
		if len(sinks) == 0 {
			continue
		}

		raw, _ := process.RawInputFor(t)
		mainInputs = append(mainInputs, raw.ChannelString)
		paramSet[raw.Params] = struct{}{}

		if len(sinks) == 1 {
			forks = append(forks, fmt.Sprintf("\n%s.set{ %s }\n", raw.Channel, sinks[0]))
		} else {
			forks = append(forks, fmt.Sprintf("\n%s.into{ %s }\n", raw.Channel, strings.Join(sinks, ";")))
		}
	}

	var secondary []string
	seenChannels := map[string]struct{}{}
	for _, p := range w.procs {
		for _, si := range p.SecondaryInputs {
			if _, ok := seenChannels[si.Params]; ok {
				continue
			}
			seenChannels[si.Params] = struct{}{}
			paramSet[si.Params] = struct{}{}
			secondary = append(secondary, si.Channel)
		}
	}
	for _, sink := range w.unresolved {
		secondary = append(secondary, fmt.Sprintf("%s = Channel.value('None')", sink))
	}

	paramNames := make([]string, 0, len(paramSet))
	for name := range paramSet {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)

	header := fmt.Sprintf("// Pipeline generated by flowgen v%s\n//\n//   definition: %s\n//   parameters: %s",
		version.Version(), w.definition(), strings.Join(paramNames, " "))

	init := process.NewInit(w.b.log)
	init.SetChannels(0, map[string]any{
		"Header":          header,
		"MainInputs":      strings.Join(mainInputs, "\n"),
		"SecondaryInputs": strings.Join(secondary, "\n"),
		"Forks":           strings.Join(forks, "\n"),
	})

	s, err := init.TemplateString()
	if err != nil {
		return "", nil, err
	}
	return s, paramNames, nil
}

func (w *wiring) definition() string {
	names := make([]string, 0, len(w.procs))
	for _, p := range w.procs {
		names = append(names, p.Template)
	}
	return strings.Join(names, " ")
}
