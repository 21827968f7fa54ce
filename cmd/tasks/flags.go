package main

import (
	"github.com/amonks/tasklist/todo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// filterValue is a pflag.Value for --filter.
type filterValue struct{ target *todo.Filter }

func (v filterValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v filterValue) Set(value string) error {
	filter, err := todo.ParseFilter(value)
	if err != nil {
		return err
	}
	*v.target = filter
	return nil
}

func (v filterValue) Type() string { return "filter" }

// sortValue is a pflag.Value for --sort.
type sortValue struct{ target *todo.Sort }

func (v sortValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v sortValue) Set(value string) error {
	sort, err := todo.ParseSort(value)
	if err != nil {
		return err
	}
	*v.target = sort
	return nil
}

func (v sortValue) Type() string { return "sort" }

// priorityValue is a pflag.Value for --priority.
type priorityValue struct{ target *todo.Priority }

func (v priorityValue) String() string {
	if v.target == nil {
		return ""
	}
	return string(*v.target)
}

func (v priorityValue) Set(value string) error {
	priority, err := todo.ParsePriority(value)
	if err != nil {
		return err
	}
	*v.target = priority
	return nil
}

func (v priorityValue) Type() string { return "priority" }

var descriptionFlagAliases = map[string]string{
	"desc": "description",
}

func addDescriptionFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), descriptionFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

func shouldUseEditor(hasFlags bool, editFlag bool, noEditFlag bool, interactive bool) bool {
	if editFlag {
		return true
	}
	if noEditFlag {
		return false
	}
	if hasFlags {
		return false
	}
	return interactive
}
