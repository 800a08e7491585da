package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

var inlineSeeds = []string{
	"",
	"print('x')\n",
	"cr.commit()\n",
	"self.env.cr.execute('SELECT %s' % x)\n",
	"from odoo.exceptions import Warning, UserError\n",
	"@api.depends('a')\ndef total(self):\n    pass\n",
	"def create(self, vals):\n    return 1\n",
	"_(f'{x}')\n",
	"{'name': 'x', 'version': '17.0.1.0.0', 'author': 'Odoo Community Association (OCA)', 'license': 'AGPL-3'}\n",
	"x = {'name': -1, 'depends': [1, [2, {'k': None}]]}\n",
	"'\\x00\\N{BULLET}\\u00e9' b'\\xff' r'\\d'\n",
	"def f(:\n",
	"print 'py2'\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.py файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
