// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package mapsource

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type stubSource struct {
	name, sourceType string
	conf             map[string]interface{}
}

func (ss *stubSource) Name() string { return ss.name }
func (ss *stubSource) Type() string { return ss.sourceType }

func (ss *stubSource) GetMap(context.Context, MapRequest) (*Map, error) {
	return &Map{}, nil
}

func stubLoader(ctx context.Context, name, sourceType string, conf map[string]interface{}) (Source, error) {
	return &stubSource{name: name, sourceType: sourceType, conf: conf}, nil
}

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry()
	suite.Require().NoError(
		suite.registry.Register("stub", LoaderFunc(stubLoader), NewSchema(map[string]Field{
			"value": {Kind: KindInt},
		})),
	)
}

func (suite *RegistryTestSuite) TestRegister() {
	suite.Run("Duplicate", func() {
		err := suite.registry.Register("stub", LoaderFunc(stubLoader), Schema{})
		suite.ErrorIs(err, ErrDuplicateSourceType)
	})

	suite.Run("EmptyType", func() {
		suite.Error(suite.registry.Register("", LoaderFunc(stubLoader), Schema{}))
	})

	suite.Run("NilLoader", func() {
		suite.Error(suite.registry.Register("nil", nil, Schema{}))
	})

	suite.Equal([]string{"stub"}, suite.registry.Types())
}

func (suite *RegistryTestSuite) TestTypesAndSchema() {
	suite.Require().NoError(
		suite.registry.Register(WMSType, WMSConfiguration{}, WMSSchema()),
	)

	suite.Equal([]string{"stub", "wms"}, suite.registry.Types())

	s, ok := suite.registry.Schema(WMSType)
	suite.True(ok)
	suite.Equal(WMSSchema().Names(), s.Names())

	_, ok = suite.registry.Schema("nosuch")
	suite.False(ok)
}

func (suite *RegistryTestSuite) TestLoader() {
	logger := zerolog.Nop()
	suite.Require().NoError(
		suite.registry.Register(WMSType, WMSConfiguration{Logger: &logger}, WMSSchema()),
	)

	l, ok := suite.registry.Loader(WMSType)
	suite.Require().True(ok)

	wc, ok := l.(WMSConfiguration)
	suite.Require().True(ok)
	suite.Same(&logger, wc.Logger)

	l, ok = suite.registry.Loader("nosuch")
	suite.False(ok)
	suite.Nil(l)
}

func (suite *RegistryTestSuite) TestBuild() {
	s, err := suite.registry.Build(
		context.Background(),
		"test",
		"stub",
		map[string]interface{}{"type": "stub", "value": 3},
	)

	suite.Require().NoError(err)
	suite.Equal("test", s.Name())
	suite.Equal("stub", s.Type())

	conf := s.(*stubSource).conf
	suite.NotContains(conf, TypeKey)
	suite.Equal(3, conf["value"])
}

func (suite *RegistryTestSuite) TestBuildUnknownType() {
	_, err := suite.registry.Build(context.Background(), "test", "nosuch", nil)
	suite.ErrorIs(err, ErrUnknownSourceType)
}

func (suite *RegistryTestSuite) TestBuildSchemaViolation() {
	_, err := suite.registry.Build(
		context.Background(),
		"test",
		"stub",
		map[string]interface{}{"value": "three", "other": true},
	)

	var se *SchemaError
	suite.Require().ErrorAs(err, &se)
	suite.Contains(err.Error(), `source "test"`)
	suite.Contains(err.Error(), "other: unknown key")
}

func (suite *RegistryTestSuite) TestBuildLoaderError() {
	expected := errors.New("expected")
	suite.Require().NoError(
		suite.registry.Register("failing", LoaderFunc(
			func(context.Context, string, string, map[string]interface{}) (Source, error) {
				return nil, expected
			},
		), Schema{}),
	)

	_, err := suite.registry.Build(context.Background(), "test", "failing", nil)
	suite.ErrorIs(err, expected)
}

func (suite *RegistryTestSuite) TestBuildAll() {
	built, err := suite.registry.BuildAll(
		context.Background(),
		map[string]map[string]interface{}{
			"a": {"type": "stub"},
			"b": {"type": "stub", "value": 1},
		},
	)

	suite.Require().NoError(err)
	suite.Len(built, 2)
	suite.Equal("a", built["a"].Name())
	suite.Equal("b", built["b"].Name())
}

func (suite *RegistryTestSuite) TestBuildAllMissingType() {
	_, err := suite.registry.BuildAll(
		context.Background(),
		map[string]map[string]interface{}{
			"a": {"value": 1},
		},
	)

	suite.ErrorIs(err, ErrMissingType)
}

func TestRegistry(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func TestLoaderFunc(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	s, err := LoaderFunc(stubLoader).Load(context.Background(), "n", "t", nil)
	require.NoError(err)
	assert.Equal("n", s.Name())
	assert.Equal("t", s.Type())
}
