package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/repokeep/internal/collection"
)

var (
	flagCollectionDelAllowNothing bool
	flagCollectionShowPath        bool
)

var collectionCmd = &cobra.Command{
	Use:     "collection",
	Aliases: []string{"coll"},
	Short:   "Manage collections in the registry",
	Long: `Manage the registered collections.

A collection is a named directory; every repository under that directory
belongs to the collection. Registry operations never touch files inside
collection directories.`,
}

func init() {
	collectionCmd.AddCommand(collectionAddCmd)
	collectionCmd.AddCommand(collectionDelCmd)
	collectionCmd.AddCommand(collectionRenameCmd)
	collectionCmd.AddCommand(collectionSetPathCmd)
	collectionCmd.AddCommand(collectionShowCmd)
	collectionCmd.AddCommand(collectionGetDefaultCmd)
	collectionCmd.AddCommand(collectionSetDefaultCmd)

	collectionDelCmd.Flags().BoolVar(&flagCollectionDelAllowNothing, "allow-remove-nothing", false, "do not error when the collection does not exist")
	collectionShowCmd.Flags().BoolVar(&flagCollectionShowPath, "path", false, "print the collection root path instead of the name")
}

var collectionAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Register a collection",
	Long: `Register a directory as a collection.

A relative path is resolved against the home directory at use time; an
absolute path is used as is.`,
	Args: cobra.ExactArgs(2),
	RunE: runCollectionAdd,
}

func runCollectionAdd(cmd *cobra.Command, args []string) error {
	name, err := collection.ParseName(args[0])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if _, exists := a.ws.Registry().Get(name.String()); exists {
		return fmt.Errorf("collection %q already exists", name)
	}
	a.ws.Registry().Insert(collection.Collection{Name: name, Path: args[1]})
	return a.ws.SaveConfig()
}

var collectionDelCmd = &cobra.Command{
	Use:   "del <name>",
	Short: "Unregister a collection",
	Long: `Unregister a collection.

This makes repokeep forget the collection; nothing is removed from
storage. Idempotent with --allow-remove-nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollectionDel,
}

func runCollectionDel(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	// A permissive string: an invalid name simply cannot match anything.
	if !a.ws.Registry().Remove(args[0]) && !flagCollectionDelAllowNothing {
		return fmt.Errorf("collection %q does not exist", args[0])
	}
	if a.ws.DefaultCollectionName().String() == args[0] {
		a.ws.SetDefaultCollection("")
	}
	return a.ws.SaveConfig()
}

var collectionRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a collection",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionRename,
}

func runCollectionRename(cmd *cobra.Command, args []string) error {
	newName, err := collection.ParseName(args[1])
	if err != nil {
		return err
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	col, ok := a.ws.Registry().Get(args[0])
	if !ok {
		return fmt.Errorf("collection %q does not exist", args[0])
	}
	if _, exists := a.ws.Registry().Get(newName.String()); exists {
		return fmt.Errorf("collection %q already exists", newName)
	}

	a.ws.Registry().Remove(args[0])
	col.Name = newName
	a.ws.Registry().Insert(col)
	if a.ws.DefaultCollectionName().String() == args[0] {
		a.ws.SetDefaultCollection(newName)
	}
	// The cache keeps its entry under the old name until the next refresh
	// of the renamed collection; stale cache names are ignored by readers.
	return a.ws.SaveConfig()
}

var collectionSetPathCmd = &cobra.Command{
	Use:   "set-path <name> <path>",
	Short: "Change a collection's root directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runCollectionSetPath,
}

func runCollectionSetPath(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	col, ok := a.ws.Registry().Get(args[0])
	if !ok {
		return fmt.Errorf("collection %q does not exist", args[0])
	}
	col.Path = args[1]
	a.ws.Registry().Insert(col)
	return a.ws.SaveConfig()
}

var collectionShowCmd = &cobra.Command{
	Use:   "show [name...]",
	Short: "Show registered collections",
	RunE:  runCollectionShow,
}

func runCollectionShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	var cols []collection.Collection
	if len(args) == 0 {
		cols = a.ws.Registry().All()
	} else {
		for _, name := range args {
			col, ok := a.ws.Registry().Get(name)
			if !ok {
				return fmt.Errorf("collection %q does not exist", name)
			}
			cols = append(cols, col)
		}
	}

	out := cmd.OutOrStdout()
	for _, col := range cols {
		if flagCollectionShowPath {
			fmt.Fprintln(out, a.ws.AbsCollectionPath(col))
		} else {
			fmt.Fprintln(out, col.Name)
		}
	}
	return nil
}

var collectionGetDefaultCmd = &cobra.Command{
	Use:   "get-default",
	Short: "Print the default collection name",
	Args:  cobra.NoArgs,
	RunE:  runCollectionGetDefault,
}

func runCollectionGetDefault(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	name := a.ws.DefaultCollectionName()
	if name == "" {
		return fmt.Errorf("no default collection configured")
	}
	fmt.Fprintln(cmd.OutOrStdout(), name)
	return nil
}

var collectionSetDefaultCmd = &cobra.Command{
	Use:   "set-default [name]",
	Short: "Set or clear the default collection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCollectionSetDefault,
}

func runCollectionSetDefault(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	if len(args) == 0 {
		a.ws.SetDefaultCollection("")
		return a.ws.SaveConfig()
	}

	name, err := collection.ParseName(args[0])
	if err != nil {
		return err
	}
	if _, ok := a.ws.Registry().Get(name.String()); !ok {
		return fmt.Errorf("collection %q does not exist", name)
	}
	a.ws.SetDefaultCollection(name)
	return a.ws.SaveConfig()
}
