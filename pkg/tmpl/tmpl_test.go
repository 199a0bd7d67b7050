package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "hello {{ .Name }}",
			data: map[string]string{"Name": "world"},
			want: "hello world",
		},
		{
			name: "multiple variables",
			tmpl: `open -a "{{ .App }}" "{{ .URL }}"`,
			data: map[string]string{
				"App": "Mail",
				"URL": "mailto:a@example.com",
			},
			want: `open -a "Mail" "mailto:a@example.com"`,
		},
		{
			name: "struct data",
			tmpl: "{{ .JobType }} for {{ .JobNumber }}",
			data: struct {
				JobType   string
				JobNumber string
			}{JobType: "Tyres", JobNumber: "J-1"},
			want: "Tyres for J-1",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Name": "test"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Name }",
			data:    map[string]string{"Name": "test"},
			wantErr: true,
		},
		{
			name: "empty value is valid",
			tmpl: "prefix{{ .Name }}suffix",
			data: map[string]string{"Name": ""},
			want: "prefixsuffix",
		},
		{
			name: "shq function with spaces",
			tmpl: "echo {{ .Text | shq }}",
			data: map[string]string{"Text": "hello world"},
			want: "echo 'hello world'",
		},
		{
			name: "shq function with single quotes",
			tmpl: "echo {{ .Text | shq }}",
			data: map[string]string{"Text": "it's a test"},
			want: `echo 'it'\''s a test'`,
		},
		{
			name: "shq function with double quotes",
			tmpl: "echo {{ .Text | shq }}",
			data: map[string]string{"Text": `say "hello"`},
			want: `echo 'say "hello"'`,
		},
		{
			name: "shq function with empty string",
			tmpl: "echo {{ .Text | shq }}",
			data: map[string]string{"Text": ""},
			want: "echo ''",
		},
		{
			name: "shq function with special chars",
			tmpl: "echo {{ .Text | shq }}",
			data: map[string]string{"Text": "$(whoami) && rm -rf /"},
			want: "echo '$(whoami) && rm -rf /'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_URLEncode(t *testing.T) {
	got, err := Render("subject={{ .Subject | urlencode }}", map[string]string{"Subject": "Checklist – Tyres & Wheels"})
	require.NoError(t, err)
	assert.Equal(t, "subject=Checklist%20%E2%80%93%20Tyres%20%26%20Wheels", got)
}

func TestRenderAll(t *testing.T) {
	data := struct {
		Recipients []string
		Subject    string
	}{Recipients: []string{"a@example.com", "b@example.com"}, Subject: "Done"}

	got, err := RenderAll([]string{"thunderbird", "-compose", "to='{{ join .Recipients \",\" }}',subject={{ .Subject | shq }}"}, data)
	require.NoError(t, err)
	assert.Equal(t, []string{"thunderbird", "-compose", "to='a@example.com,b@example.com',subject='Done'"}, got)

	_, err = RenderAll([]string{"ok", "{{ .Missing }}"}, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "argument 1")
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("{{ .URL }}"))
	assert.False(t, IsTemplate("xdg-open"))
}
