// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	stdslices "slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ManifestFetchFailedId Id = iota + 1
	NetworkTimeoutId
	RateLimitedId
	RefNotFoundId
	ScriptNotFoundId
	ElevationUnavailableId
	DestinationNotWritableId
	PathUpdateFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look the issue up
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render returns the issue as terminal Markdown in the given glamour style
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

const repoDocs HttpLink = "https://github.com/scruffaluff/scripts#install"

var (
	render = glamour.Render

	manifestFetchFailedIssue = &Issue{
		id: ManifestFetchFailedId,
		mdMsg: `
# Could not fetch the script list

The installer reads the list of scripts from the GitHub API and could not
get a usable answer.

## Things you can try
- Check your internet connection and proxy settings.
- Retry in a moment; GitHub may be having trouble.
- Run with ` + "`--verbose`" + ` to see the failing URL and status.`,
		docLinks: []HttpLink{repoDocs},
		extLinks: []HttpLink{"https://www.githubstatus.com"},
	}

	networkTimeoutIssue = &Issue{
		id: NetworkTimeoutId,
		mdMsg: `
# The request timed out

GitHub did not answer within the configured timeout.

## Things you can try
- Retry; slow networks sometimes need a second attempt.
- Raise the timeout in your config file:
~~~cue
network: timeout: "90s"
~~~`,
		docLinks: []HttpLink{repoDocs},
	}

	rateLimitedIssue = &Issue{
		id: RateLimitedId,
		mdMsg: `
# GitHub API rate limit exceeded

Anonymous requests to the GitHub API are limited to 60 per hour.

## Things you can try
- Wait until the limit resets.
- Export a personal access token:
~~~
$ export GITHUB_TOKEN=<token>
~~~`,
		extLinks: []HttpLink{"https://docs.github.com/rest/using-the-rest-api/rate-limits-for-the-rest-api"},
	}

	refNotFoundIssue = &Issue{
		id: RefNotFoundId,
		mdMsg: `
# Unknown version

The branch, tag or commit passed with ` + "`--version`" + ` does not exist in
the scripts repository.

## Things you can try
- Omit ` + "`--version`" + ` to install from the default branch.
- Check the spelling of the branch or tag name.`,
		docLinks: []HttpLink{repoDocs},
	}

	scriptNotFoundIssue = &Issue{
		id: ScriptNotFoundId,
		mdMsg: `
# No script with that name

Script names are matched exactly and are case sensitive.

## Things you can try
- List the available scripts:
~~~
$ install --list
~~~
- Check whether the script only exists on another branch and pass it with
  ` + "`--version`" + `.`,
		docLinks: []HttpLink{repoDocs},
	}

	elevationUnavailableIssue = &Issue{
		id: ElevationUnavailableId,
		mdMsg: `
# Cannot write to the install directory

The destination needs administrator rights and neither ` + "`sudo`" + ` nor
` + "`doas`" + ` is installed.

## Things you can try
- Install for your user only:
~~~
$ install --user <name>
~~~
- Pick a directory you own with ` + "`--dest`" + `.
- On Windows, run the installer from an elevated shell.`,
		docLinks: []HttpLink{repoDocs},
	}

	destinationNotWritableIssue = &Issue{
		id: DestinationNotWritableId,
		mdMsg: `
# Writing the script failed

The script was downloaded but could not be placed in the install directory.

## Things you can try
- Check free disk space and the permissions of the directory.
- Use ` + "`--user`" + ` or ` + "`--dest`" + ` to install somewhere else.`,
		docLinks: []HttpLink{repoDocs},
	}

	pathUpdateFailedIssue = &Issue{
		id: PathUpdateFailedId,
		mdMsg: `
# Could not add the install directory to PATH

The scripts are installed but your shell will not find them yet.

## Things you can try
- Add the directory to PATH in your shell profile by hand:
~~~sh
export PATH="$HOME/.local/bin:${PATH}"
~~~`,
		docLinks: []HttpLink{repoDocs},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Invalid configuration

The config file could not be parsed or does not match the schema.

## Example
~~~cue
install: {
	default_ref: "main"
	scope: "user"
}
network: timeout: "30s"
~~~`,
		docLinks: []HttpLink{repoDocs},
	}

	issues = map[Id]*Issue{
		manifestFetchFailedIssue.Id():    manifestFetchFailedIssue,
		networkTimeoutIssue.Id():         networkTimeoutIssue,
		rateLimitedIssue.Id():            rateLimitedIssue,
		refNotFoundIssue.Id():            refNotFoundIssue,
		scriptNotFoundIssue.Id():         scriptNotFoundIssue,
		elevationUnavailableIssue.Id():   elevationUnavailableIssue,
		destinationNotWritableIssue.Id(): destinationNotWritableIssue,
		pathUpdateFailedIssue.Id():       pathUpdateFailedIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := stdslices.Collect(maps.Values(issues))
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
