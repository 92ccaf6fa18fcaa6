// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package ini_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/yourbase/inifile/ini"
)

func ExampleParse() {
	const iniFile = `
		# Settings
		[foo]
		bar = baz
		[mysection]
		host = example.com`
	cfg, err := ini.Parse(strings.NewReader(iniFile), nil)
	if err != nil {
		// handle error
	}

	// Groups keep the order of the file.
	for _, g := range cfg.Groups() {
		fmt.Println("Group:", g.Name())
	}

	// Get specific values.
	host, _ := cfg.Get("mysection", "host")
	fmt.Println("Host:", host)
	_, ok := cfg.Get("foo", "missing")
	fmt.Println("Has missing:", ok)

	// Output:
	// Group: foo
	// Group: mysection
	// Host: example.com
	// Has missing: false
}

// Properties without a value are null, which is different from the empty
// string.
func ExampleFile_Get_null() {
	cfg, err := ini.Parse(strings.NewReader("[client]\nproxy =\nname = \"\"\n"), nil)
	if err != nil {
		// handle error
	}
	for _, e := range cfg.Entries() {
		fmt.Printf("%s: %q (valid: %t)\n", e.Key, e.Value, e.Valid)
	}

	// Output:
	// name: "" (valid: true)
	// proxy: "" (valid: false)
}

func ExampleFile_MarshalText() {
	f := ini.Create("", &ini.Options{
		Now: func() time.Time { return time.Date(2020, time.June, 1, 12, 0, 0, 0, time.UTC) },
	})
	f.AddComment("Settings for the example program.")
	f.Set("server", "host", "example.com")
	f.Set("server", "port", "8080")
	f.AddValueComment("server", "port", "Port to listen on.")
	f.SetNull("client", "proxy")

	text, err := f.MarshalText()
	if err != nil {
		// handle error
	}
	if _, err := os.Stdout.Write(text); err != nil {
		// handle error
	}

	// Output:
	// # Settings for the example program.
	// # Last Update: 2020-06-01T12:00:00Z
	//
	// [server]
	// host = example.com
	//
	// # Port to listen on.
	// port = 8080
	//
	// [client]
	// proxy =
}

// Open and Save accept any afero file system. This example keeps the file in
// memory.
func ExampleOpen() {
	ctx := context.Background()
	fsys := afero.NewMemMapFs()

	f, err := ini.Open(ctx, "/etc/app/settings.ini", &ini.Options{Fs: fsys})
	if err != nil {
		// handle error
	}
	f.Set("paths", "home", `C:\Users\app`)
	if err := f.Save(ctx); err != nil {
		// handle error
	}

	reopened, err := ini.Open(ctx, "/etc/app/settings.ini", &ini.Options{Fs: fsys})
	if err != nil {
		// handle error
	}
	home, _ := reopened.Get("paths", "home")
	fmt.Println(home)

	// Output:
	// C:\Users\app
}
