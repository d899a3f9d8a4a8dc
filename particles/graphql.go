package particles

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/graphql-go/graphql"
)

var strategyType = reflect.TypeOf(Strategy(0))

func (f *Field) initGraphql() error {
	paramType, inputType := newConfigTypes("Params")

	rootQuery := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "RootQuery",
			Fields: graphql.Fields{
				"params": &graphql.Field{
					Type: paramType,
					Resolve: func(graphql.ResolveParams) (interface{}, error) {
						return f.Config(), nil
					},
				},
				"state": &graphql.Field{
					Type: graphql.String,
					Resolve: func(graphql.ResolveParams) (interface{}, error) {
						return f.State().String(), nil
					},
				},
				"ticks": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(graphql.ResolveParams) (interface{}, error) {
						return f.Ticks(), nil
					},
				},
			},
		},
	)
	rootMut := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "RootMut",
			Fields: graphql.Fields{
				"params": &graphql.Field{
					Type: paramType,
					Args: graphql.FieldConfigArgument{
						"params": &graphql.ArgumentConfig{Type: inputType},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						args, ok := p.Args["params"].(map[string]interface{})
						if !ok {
							return nil, fmt.Errorf("missing arg: params")
						}
						cfg := f.Config()
						if err := applyConfigArgs(&cfg, args); err != nil {
							return nil, err
						}
						if err := f.Reconfigure(&cfg); err != nil {
							return nil, err
						}
						return f.Config(), nil
					},
				},
			},
		},
	)
	schema, err := graphql.NewSchema(
		graphql.SchemaConfig{
			Query:    rootQuery,
			Mutation: rootMut,
		},
	)
	if err != nil {
		return err
	}
	f.schema = schema
	return nil
}

// Query runs a graphql query or mutation against the field's parameters.
func (f *Field) Query(query string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         f.schema,
		RequestString:  query,
		VariableValues: vars,
	})
}

// newConfigTypes builds an output type and a matching input type from the json tags of
// Config. Fields of unsupported kinds are left out.
func newConfigTypes(name string) (*graphql.Object, *graphql.InputObject) {
	fields := graphql.Fields{}
	inputFields := graphql.InputObjectConfigFieldMap{}

	ref := reflect.TypeOf(Config{})
	for tag, i := range jsonTagFieldMap(ref) {
		typ := graphqlType(ref.Field(i).Type)
		if typ == nil {
			continue
		}
		fields[tag] = &graphql.Field{Type: typ, Resolve: configResolver(i)}
		inputFields[tag] = &graphql.InputObjectFieldConfig{Type: typ}
	}

	paramType := graphql.NewObject(
		graphql.ObjectConfig{
			Name:   name,
			Fields: fields,
		})
	inputParamType := graphql.NewInputObject(
		graphql.InputObjectConfig{
			Name:   "input" + name,
			Fields: inputFields,
		})
	return paramType, inputParamType
}

func graphqlType(t reflect.Type) *graphql.Scalar {
	if t == strategyType {
		return graphql.String
	}
	switch t.Kind() {
	case reflect.Bool:
		return graphql.Boolean
	case reflect.Float32, reflect.Float64:
		return graphql.Float
	case reflect.String:
		return graphql.String
	case reflect.Int, reflect.Int8, reflect.Int32, reflect.Int64:
		return graphql.Int
	}
	return nil
}

func configResolver(field int) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		cfg, ok := p.Source.(Config)
		if !ok {
			return nil, fmt.Errorf("unexpected source: %#v", p.Source)
		}
		val := reflect.ValueOf(cfg).Field(field)
		if val.Type() == strategyType {
			return val.Interface().(Strategy).String(), nil
		}
		return val.Interface(), nil
	}
}

func applyConfigArgs(cfg *Config, args map[string]interface{}) error {
	elem := reflect.ValueOf(cfg).Elem()
	tagMap := jsonTagFieldMap(elem.Type())
	for arg, val := range args {
		i, ok := tagMap[arg]
		if !ok {
			return fmt.Errorf("unknown param: %s", arg)
		}
		field := elem.Field(i)
		if field.Type() == strategyType {
			name, ok := val.(string)
			if !ok {
				return fmt.Errorf("param %s must be a string", arg)
			}
			s, err := ParseStrategy(name)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(s))
			continue
		}
		v := reflect.ValueOf(val)
		if !v.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("param %s has wrong type %T", arg, val)
		}
		field.Set(v.Convert(field.Type()))
	}
	return nil
}

func jsonTagFieldMap(t reflect.Type) map[string]int {
	m := make(map[string]int)
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("json"), ",")[0]
		if tag == "" || tag == "-" {
			continue
		}
		m[tag] = i
	}
	return m
}
