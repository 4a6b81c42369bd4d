package sqlinline

const QInsertAnalyticsEvent = `--sql 8b664c3a-497f-45a2-b134-df1aa6fabc40
insert into analytics_events (companion_id, event_type, viewer_auth_id, country, created_at)
values ($1::uuid, $2::text, nullif($3::text, ''), $4::text, now());
`

const QAnalyticsTotals = `--sql b75f96ce-59c8-4db0-9e54-89f1d00be03f
select event_type, count(*)::int
from analytics_events
where companion_id = $1::uuid and created_at >= $2::timestamptz
group by event_type;
`

const QAnalyticsByCountry = `--sql b9aa6fb2-28c1-4594-818d-29ebfd0ec7c1
select country, count(*)::int
from analytics_events
where companion_id = $1::uuid and created_at >= $2::timestamptz and country <> ''
group by country
order by count(*) desc
limit 20;
`

const QAnalyticsUniqueViewers = `--sql c25dc652-0461-492e-b06b-31faac11e44f
select count(distinct viewer_auth_id)::int
from analytics_events
where companion_id = $1::uuid and created_at >= $2::timestamptz and viewer_auth_id is not null;
`

const QStatsSummary = `--sql afad3d1f-48b1-427a-bf73-7e8c9613bf0d
select
    (select count(*) from companions where not suspended),
    (select count(*) from companions where not suspended and verified),
    (select count(distinct city_slug) from companions where not suspended),
    (select count(*) from reviews);
`
